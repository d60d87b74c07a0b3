package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func extract(raw []byte, path ...string) string {
	var v map[string]interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var cur interface{} = v
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return ""
		}
		cur = m[key]
	}
	s, _ := cur.(string)
	return s
}

func main() {
	color.Cyan("Starting Notes Chat API Smoke Test\n")

	// 1. Health
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/health_check", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 2. Create a note to chat against
	color.Yellow("\n2. Create Note")
	resp, body, err = sendRequest("POST", "/notes", map[string]string{
		"title":   "React Hooks",
		"content": "useState and useEffect are the two hooks I use most.",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
	noteId := extract(body, "data", "id")

	// 3. Kick a bulk sync so the note is retrievable
	color.Yellow("\n3. Sync Notes")
	resp, body, err = sendRequest("POST", "/sync_notes", map[string]bool{"force_resync": true})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	resp, body, _ = sendRequest("GET", "/sync_status", nil)
	color.Green("Sync status: %s", resp.Status)
	prettyPrint(body)

	// 4. Query path
	color.Yellow("\n4. Chat: Query")
	resp, body, err = sendRequest("POST", "/chat", map[string]string{
		"message": "What notes do I have about work?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
	conversationId := extract(body, "data", "conversation_id")

	// 5. Edit path: propose, then apply
	color.Yellow("\n5. Chat: Edit Intent")
	resp, body, err = sendRequest("POST", "/chat", map[string]interface{}{
		"message":         "Edit my note about react hooks to mention useMemo",
		"conversation_id": conversationId,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	sessionId := extract(body, "data", "session_id")
	if sessionId == "" {
		color.Red("No edit session opened, skipping apply")
	} else {
		color.Yellow("\n6. Apply Changes")
		resp, body, err = sendRequest("POST", "/chat_sessions/"+sessionId+"/apply_changes", nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(body)
	}

	// 7. Verify the note and the transcript
	color.Yellow("\n7. Show Note and Conversation")
	resp, body, _ = sendRequest("GET", "/notes/"+noteId, nil)
	color.Green("Note: %s", resp.Status)
	prettyPrint(body)

	resp, body, _ = sendRequest("GET", "/conversations/"+conversationId, nil)
	color.Green("Conversation: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\nSmoke test finished")
}
