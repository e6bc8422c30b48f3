package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, LLM calls can run long
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(raw []byte) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(raw, &envelope)
	return envelope.Data
}

func main() {
	color.Cyan("🚀 Starting Video Chat API Smoke Test\n")

	email := fmt.Sprintf("smoke-%d@example.com", time.Now().Unix())
	password := "smoke-test-pass"

	// ============================================================
	color.Yellow("\n1. Register")
	resp, body, err := sendRequest("POST", "/auth/v1/register", "", map[string]string{
		"email": email, "password": password, "full_name": "Smoke Tester",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// ============================================================
	color.Yellow("\n2. Login")
	resp, body, err = sendRequest("POST", "/auth/v1/login", "", map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	token, _ := dataField(body)["access_token"].(string)
	if token == "" {
		color.Red("No access token in login response")
		os.Exit(1)
	}

	// ============================================================
	color.Yellow("\n3. Submit Video for Ingestion")
	resp, body, err = sendRequest("POST", "/video/v1", token, map[string]interface{}{
		"youtube_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"title":       "Never Gonna Give You Up",
		"transcript":  "We're no strangers to love. You know the rules and so do I. A full commitment's what I'm thinking of.",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
	videoId, _ := dataField(body)["id"].(string)

	// ============================================================
	color.Yellow("\n4. Poll Video Status (waiting for 'ready')")
	for i := 0; i < 30; i++ {
		resp, body, err = sendRequest("GET", "/video/v1/"+videoId, token, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		status, _ := dataField(body)["status"].(string)
		fmt.Printf("  status=%s\n", status)
		if status == "ready" || status == "failed" {
			break
		}
		time.Sleep(2 * time.Second)
	}
	color.Green("Status: %s", resp.Status)

	// ============================================================
	color.Yellow("\n5. Create Chat Session")
	resp, body, err = sendRequest("POST", "/chat/v1/session", token, map[string]string{
		"title": "Smoke Test Session",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	sessionId, _ := dataField(body)["id"].(string)

	// ============================================================
	color.Yellow("\n6. Send Chat (grounded QA)")
	resp, body, err = sendRequest("POST", "/chat/v1/send", token, map[string]string{
		"chat_session_id": sessionId,
		"message":         "What does the song say about commitment?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// ============================================================
	color.Yellow("\n7. Chat History")
	resp, body, err = sendRequest("GET", "/chat/v1/session/"+sessionId+"/history", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\n✅ Smoke test finished")
}
