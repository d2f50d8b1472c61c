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
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
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

	client := &http.Client{} // No timeout, model calls are slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Tutor API Smoke Test\n")

	// 1. Create Session
	color.Yellow("\n1. Create Session")
	resp, body, err := sendRequest("POST", "/tutor/v1/session", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var createResp map[string]interface{}
	json.Unmarshal(body, &createResp)
	prettyPrint(createResp)

	var sessionID string
	if data, ok := createResp["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			sessionID = id
			fmt.Printf("Created Session ID: %s\n", sessionID)
		}
	}
	if sessionID == "" {
		color.Red("No session id in response")
		os.Exit(1)
	}

	// 2. Send a chat with a deliberate mistake
	color.Yellow("\n2. Send Chat (deliberate mistake)")
	chatReq := map[string]interface{}{
		"chat_session_id": sessionID,
		"chat":            "I think 1/2 + 1/3 = 2/5, is that right?",
	}
	resp, body, err = sendRequest("POST", "/tutor/v1/chat", chatReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	prettyPrint(chatResp)

	// 3. History should show greeting + both turns
	color.Yellow("\n3. Get Chat History")
	resp, body, err = sendRequest("GET", "/tutor/v1/session/"+sessionID+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var histResp map[string]interface{}
	json.Unmarshal(body, &histResp)
	prettyPrint(histResp)

	// 4. Mistake archive
	color.Yellow("\n4. Get Mistakes")
	resp, body, err = sendRequest("GET", "/tutor/v1/mistakes?session_id="+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var mistakesResp map[string]interface{}
	json.Unmarshal(body, &mistakesResp)
	prettyPrint(mistakesResp)

	// 5. Delete the session, archive should survive
	color.Yellow("\n5. Delete Session")
	resp, _, err = sendRequest("DELETE", "/tutor/v1/session", map[string]interface{}{
		"chat_session_id": sessionID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	resp, body, _ = sendRequest("GET", "/tutor/v1/mistakes", nil)
	color.Green("Mistakes after delete, Status: %s", resp.Status)
	json.Unmarshal(body, &mistakesResp)
	prettyPrint(mistakesResp)

	color.Cyan("\n✅ Smoke test finished")
}
