package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ccollicutt/chatstat/internal/cli/commands"
)

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) string {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	commands.ExitCode = 0
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type e2eReport struct {
	Selector string `json:"selector"`
	Summary  struct {
		Messages int `json:"messages"`
		Words    int `json:"words"`
		Media    int `json:"media"`
		Links    int `json:"links"`
	} `json:"summary"`
	MonthlyTimeline []struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	} `json:"monthly_timeline"`
	BusyUsers *struct {
		Top []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"top"`
		Shares []struct {
			Name    string  `json:"name"`
			Percent float64 `json:"percent"`
		} `json:"shares"`
	} `json:"busy_users"`
	Emojis []struct {
		Emoji string `json:"emoji"`
		Count int    `json:"count"`
	} `json:"emojis"`
	SentimentLabel string `json:"sentiment_label"`
	Metadata       struct {
		Format       string   `json:"format"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
}

func analyzeJSON(t *testing.T, args ...string) e2eReport {
	t.Helper()
	out, err := execute(t, append([]string{"analyze", "-o", "json"}, args...)...)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	var report e2eReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, out)
	}
	return report
}

func TestE2E_AndroidExport(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "android_dmy.txt"))

	report := analyzeJSON(t, chat)

	if report.Summary.Messages != 13 {
		t.Errorf("messages = %d, want 13", report.Summary.Messages)
	}
	if report.Summary.Media != 1 {
		t.Errorf("media = %d, want 1", report.Summary.Media)
	}
	if report.Summary.Links != 1 {
		t.Errorf("links = %d, want 1", report.Summary.Links)
	}
	if report.Metadata.Format != "Android 24-hour" {
		t.Errorf("format = %q", report.Metadata.Format)
	}
	if strings.Join(report.Metadata.Participants, ",") != "Jun,Priya,Tomás" {
		t.Errorf("participants = %v", report.Metadata.Participants)
	}

	if len(report.MonthlyTimeline) != 2 ||
		report.MonthlyTimeline[0].Label != "March-2024" || report.MonthlyTimeline[0].Count != 11 ||
		report.MonthlyTimeline[1].Label != "April-2024" || report.MonthlyTimeline[1].Count != 2 {
		t.Errorf("monthly timeline = %+v", report.MonthlyTimeline)
	}

	if report.BusyUsers == nil || len(report.BusyUsers.Shares) != 3 {
		t.Fatalf("busy users = %+v", report.BusyUsers)
	}
	total := 0.0
	for _, s := range report.BusyUsers.Shares {
		total += s.Percent
	}
	if total < 99.9 || total > 100.1 {
		t.Errorf("shares sum to %.2f, want ~100", total)
	}
}

func TestE2E_AndroidExport_Participant(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "android_dmy.txt"))

	report := analyzeJSON(t, "--user", "Jun", chat)

	if report.Summary.Messages != 3 {
		t.Errorf("messages = %d, want 3", report.Summary.Messages)
	}
	if report.BusyUsers != nil {
		t.Error("busy users should be omitted for a participant")
	}
	if len(report.Emojis) == 0 || report.Emojis[0].Emoji != "👍" || report.Emojis[0].Count != 2 {
		t.Errorf("emojis = %+v, want 👍 x2 first", report.Emojis)
	}
	if report.SentimentLabel != "Positive" {
		t.Errorf("sentiment = %q, want Positive", report.SentimentLabel)
	}
}

func TestE2E_IOSExport(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "ios_mdy.txt"))

	report := analyzeJSON(t, chat)

	if report.Summary.Messages != 5 {
		t.Errorf("messages = %d, want 5", report.Summary.Messages)
	}
	if report.Metadata.Format != "iOS bracketed" {
		t.Errorf("format = %q", report.Metadata.Format)
	}
	if len(report.MonthlyTimeline) != 1 || report.MonthlyTimeline[0].Label != "March-2024" {
		t.Errorf("monthly timeline = %+v", report.MonthlyTimeline)
	}
	if len(report.Emojis) == 0 || report.Emojis[0].Emoji != "🚀" || report.Emojis[0].Count != 3 {
		t.Errorf("emojis = %+v, want 🚀 x3 first", report.Emojis)
	}
	if report.BusyUsers == nil || report.BusyUsers.Top[0].Name != "Leo" {
		t.Errorf("busy users = %+v, want Leo first", report.BusyUsers)
	}
}

func TestE2E_IOSExport_MediaPlaceholder(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "ios_mdy.txt"))

	report := analyzeJSON(t, chat)
	if report.Summary.Media != 0 {
		t.Errorf("media = %d, want 0 with the Android placeholder", report.Summary.Media)
	}

	// iOS keeps a left-to-right mark in front of the placeholder
	report = analyzeJSON(t, "--media-placeholder", "\u200eimage omitted", chat)
	if report.Summary.Media != 1 {
		t.Errorf("media = %d, want 1", report.Summary.Media)
	}
}

func TestE2E_Detect(t *testing.T) {
	tests := []struct {
		file      string
		format    string
		dateOrder string
	}{
		{"android_dmy.txt", "Android 24-hour", "dmy"},
		{"ios_mdy.txt", "iOS bracketed", "mdy"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			chat := requireFile(t, filepath.Join("testdata", "chats", tt.file))

			out, err := execute(t, "detect", "-o", "json", chat)
			if err != nil {
				t.Fatalf("detect failed: %v", err)
			}

			var result struct {
				Matches []struct {
					Name string `json:"name"`
				} `json:"matches"`
				DateOrder string `json:"date_order"`
			}
			if err := json.Unmarshal([]byte(out), &result); err != nil {
				t.Fatalf("Output is not valid JSON: %v", err)
			}
			if len(result.Matches) == 0 || result.Matches[0].Name != tt.format {
				t.Errorf("matches = %+v, want %s", result.Matches, tt.format)
			}
			if result.DateOrder != tt.dateOrder {
				t.Errorf("date order = %q, want %q", result.DateOrder, tt.dateOrder)
			}
		})
	}
}

func TestE2E_Detect_WriteConfigThenAnalyze(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "ios_mdy.txt"))
	configPath := filepath.Join(t.TempDir(), "chatstat.yaml")

	if _, err := execute(t, "detect", "-w", configPath, chat); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if _, err := execute(t, "validate", configPath); err != nil {
		t.Fatalf("generated config does not validate: %v", err)
	}

	report := analyzeJSON(t, "--config", configPath, chat)
	if report.Summary.Messages != 5 {
		t.Errorf("messages = %d, want 5", report.Summary.Messages)
	}
}

func TestE2E_Participants(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "android_dmy.txt"))

	out, err := execute(t, "participants", chat)
	if err != nil {
		t.Fatalf("participants failed: %v", err)
	}
	if !strings.HasPrefix(out, "Jun (3)\nPriya (3)\nTomás (3)\n") {
		t.Errorf("participants output = %q", out)
	}
	if !strings.Contains(out, "4 group notification(s)") {
		t.Errorf("participants output missing notifications: %q", out)
	}
}

func TestE2E_Diagnose(t *testing.T) {
	chat := requireFile(t, filepath.Join("testdata", "chats", "android_dmy.txt"))

	out, err := execute(t, "diagnose", chat)
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if !strings.Contains(out, "0 errors") {
		t.Errorf("diagnose output = %s", out)
	}
	if commands.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", commands.ExitCode)
	}
}

func TestE2E_Webhook_ConfigFile(t *testing.T) {
	var mu sync.Mutex
	var auth []string
	var bodies [][]byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		auth = append(auth, r.Header.Get("Authorization"))
		bodies = append(bodies, body)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	t.Setenv("E2E_WEBHOOK_TOKEN", "hike-token")
	configPath := filepath.Join(t.TempDir(), "chatstat.yaml")
	config := "webhooks:\n" +
		"  - name: archive\n" +
		"    url: " + server.URL + "/archive\n" +
		"    token: ${E2E_WEBHOOK_TOKEN}\n" +
		"  - name: disabled\n" +
		"    url: " + server.URL + "/disabled\n" +
		"    trigger: never\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	chat := requireFile(t, filepath.Join("testdata", "chats", "android_dmy.txt"))
	if _, err := execute(t, "analyze", "-q", "--config", configPath, chat); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 1 {
		t.Fatalf("got %d webhook calls, want 1", len(bodies))
	}
	if auth[0] != "Bearer hike-token" {
		t.Errorf("Authorization = %q", auth[0])
	}

	var payload e2eReport
	if err := json.Unmarshal(bodies[0], &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Summary.Messages != 13 {
		t.Errorf("payload messages = %d, want 13", payload.Summary.Messages)
	}
}
