package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Runs the staff CRUD cycle against a running API for many staff members at once.
func main() {
	baseURL := flag.String("url", "http://localhost:8000", "API base URL")
	username := flag.String("username", os.Getenv("API_USERNAME"), "API username")
	password := flag.String("password", os.Getenv("API_PASSWORD"), "API password")
	numStaff := flag.Int("staff", 200, "number of staff records to cycle")
	concurrency := flag.Int("concurrency", 20, "concurrent workers")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(client, *baseURL, *username, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting smoke test: %d staff records against %s with concurrency %d\n", *numStaff, *baseURL, *concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, *concurrency)

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < *numStaff; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(staffID string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := cycle(client, *baseURL, token, staffID); err != nil {
				atomic.AddInt64(&failCount, 1)
				fmt.Fprintf(os.Stderr, "%s: %v\n", staffID, err)
				return
			}
			atomic.AddInt64(&successCount, 1)
		}(fmt.Sprintf("smoke-test-staff-%d", i))
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Smoke Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(*numStaff*4)/duration.Seconds())

	if failCount > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, baseURL, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := client.Post(baseURL+"/token", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

// cycle creates, reads, updates and deletes one staff record, checking the
// read-back values along the way.
func cycle(client *http.Client, baseURL, token, staffID string) error {
	staffURL := baseURL + "/jta/api/staff"
	itemURL := staffURL + "/" + url.PathEscape(staffID)

	create := map[string]any{
		"staffID":        staffID,
		"fullName":       "Smoke Test",
		"employmentType": "FT",
		"jobTitle":       "Carer",
		"hourlyRate":     15.5,
	}
	if _, err := call(client, http.MethodPost, staffURL, token, create); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	got, err := call(client, http.MethodGet, itemURL, token, nil)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if got["hourlyRate"] != 15.5 {
		return fmt.Errorf("get: hourlyRate = %v", got["hourlyRate"])
	}

	update := map[string]any{"updates": map[string]any{"hourlyRate": "16.0"}}
	if _, err := call(client, http.MethodPut, itemURL, token, update); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if _, err := call(client, http.MethodDelete, itemURL, token, nil); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func call(client *http.Client, method, target, token string, body any) (map[string]any, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, target, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
