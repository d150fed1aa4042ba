package erlc

import (
	"bytes"
	"encoding/json"
	"log"
	"moderation-bot/model"
	"moderation-bot/utils"
	"net/http"
)

// Client is a stateless wrapper around the ER:LC control API. It translates
// the three operations the bot needs into HTTP calls and normalizes every
// failure: callers get nil/false/empty, never an error. Retry policy lives
// in the action queue, not here.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates a gateway client. An empty baseURL selects the production API.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.policeroleplay.community/v1"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    utils.GlobalHTTPClient,
	}
}

// GetServerStatus returns the current server occupancy and metadata, or nil
// when the server is unreachable, rate limited, or the API errors. A nil
// result is the "unreachable" signal the queue and ingestion act on.
func (c *Client) GetServerStatus() *model.ServerStatus {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/server", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Server-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[ErlcClient] Error fetching server status: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			log.Println("[ErlcClient] Rate limited")
		} else {
			log.Printf("[ErlcClient] API unavailable (%d)", resp.StatusCode)
		}
		return nil
	}

	var status model.ServerStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		log.Printf("[ErlcClient] Error decoding server status: %v", err)
		return nil
	}
	return &status
}

// RunCommand executes one remote administrative command. Any non-2xx
// response or transport error yields false; a 429 is treated the same as a
// hard failure so the retry queue owns all backoff decisions.
func (c *Client) RunCommand(command string) bool {
	payload, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return false
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/server/command", bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Server-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[ErlcClient] Command transport error: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			log.Println("[ErlcClient] Rate limited during command execution")
		} else {
			log.Printf("[ErlcClient] Command rejected (%d)", resp.StatusCode)
		}
		return false
	}
	return true
}

// GetKillLogs returns the recent kill log page, empty on any error.
func (c *Client) GetKillLogs() []model.KillLog {
	var logs []model.KillLog
	c.getLogs("killlogs", &logs)
	return logs
}

// GetCommandLogs returns the recent command log page, empty on any error.
func (c *Client) GetCommandLogs() []model.CommandLog {
	var logs []model.CommandLog
	c.getLogs("commandlogs", &logs)
	return logs
}

// GetJoinLogs returns the recent join/leave log page, empty on any error.
func (c *Client) GetJoinLogs() []model.JoinLog {
	var logs []model.JoinLog
	c.getLogs("joinlogs", &logs)
	return logs
}

func (c *Client) getLogs(endpoint string, out interface{}) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/server/"+endpoint, nil)
	if err != nil {
		return
	}
	req.Header.Set("Server-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[ErlcClient] Error fetching %s: %v", endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[ErlcClient] Error decoding %s: %v", endpoint, err)
	}
}
