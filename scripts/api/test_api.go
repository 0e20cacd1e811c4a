// Minimal end-to-end integration test for the MedCheck API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

var baseURL = getenv("API_URL", "http://localhost:8080/v1")

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	patient := signIn("Alex Test", "alex@example.com", "PATIENT")
	doctor := signIn("Dr. Test", "doc@example.com", "PROFESSIONAL")

	claim := fmt.Sprintf("Garlic lowers blood pressure (%d)", time.Now().Unix())
	analyze(patient, claim)
	checkHistory(patient, claim)

	qid := openQuestion(doctor, claim)
	respond(doctor, qid)

	postID := createPost(patient)
	comment(doctor, postID)
	like(patient, postID)
	trending(patient)

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func signIn(name, email, role string) string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/signin", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "ignored",
		"role":     role,
	}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("signin: empty token")
	}
	return resp.Token
}

// ----------------------------- claims

func analyze(token, claim string) {
	var verdict struct {
		Claim  string
		Status string
	}
	doJSON("POST", "/claims/analyze", token, map[string]any{"text": claim}, &verdict, http.StatusOK)
	if verdict.Claim != claim || verdict.Status == "" {
		log.Fatalf("analyze: unexpected verdict %+v", verdict)
	}
}

func checkHistory(token, claim string) {
	var hist []struct{ Claim string }
	doJSON("GET", "/claims/history", token, nil, &hist, http.StatusOK)
	if len(hist) == 0 || hist[0].Claim != claim {
		log.Fatalf("history: claim missing from %+v", hist)
	}
}

// ----------------------------- portal

func openQuestion(token, claim string) string {
	var questions []struct {
		ID     string
		Text   string
		Status string
	}
	doJSON("GET", "/portal/questions", token, nil, &questions, http.StatusOK)
	for _, q := range questions {
		if q.Text == claim && q.Status == "OPEN" {
			return q.ID
		}
	}
	log.Fatalf("portal: no open question for %q", claim)
	return ""
}

func respond(token, qid string) {
	var q struct{ Status string }
	doJSON("POST", "/portal/questions/"+qid+"/response", token,
		map[string]any{"text": "Evidence is limited, discuss with your doctor."}, &q, http.StatusOK)
	if q.Status != "ANSWERED" {
		log.Fatalf("respond: status %q", q.Status)
	}
}

// ----------------------------- community

func createPost(token string) string {
	var post struct{ ID string }
	doJSON("POST", "/community/posts", token,
		map[string]any{"content": "Smoke test post."}, &post, http.StatusOK)
	if post.ID == "" {
		log.Fatal("post: empty id")
	}
	return post.ID
}

func comment(token, postID string) {
	var post struct{ Comments []struct{ Content string } }
	doJSON("POST", "/community/posts/"+postID+"/comments", token,
		map[string]any{"content": "Smoke test comment."}, &post, http.StatusOK)
	if len(post.Comments) == 0 {
		log.Fatal("comment: not attached")
	}
}

func like(token, postID string) {
	var post struct{ Likes int }
	doJSON("POST", "/community/posts/"+postID+"/like", token, nil, &post, http.StatusOK)
	if post.Likes < 1 {
		log.Fatalf("like: count %d", post.Likes)
	}
}

func trending(token string) {
	var topics []struct{ Topic string }
	doJSON("GET", "/trending", token, nil, &topics, http.StatusOK)
	if len(topics) == 0 {
		log.Fatal("trending: empty")
	}
}

// ----------------------------- plumbing

func doJSON(method, path, token string, payload, out any, want int) {
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			log.Fatalf("%s %s: marshal: %v", method, path, err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		log.Fatalf("%s %s: status %d, want %d", method, path, resp.StatusCode, want)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	fmt.Printf("✓ %s %s\n", method, path)
}
