// Command simulate drives a full game against a running server: it creates
// a lobby, fills it with bots, then plays host through every phase while
// polling the snapshot endpoint the way the mobile client does.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"word-imposter/internal/bots"
	"word-imposter/internal/countdown"
)

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) post(path string, payload, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("%s: status %d: %v", path, resp.StatusCode, body["error"])
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *client) get(path string, dest any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	botCount := flag.Int("bots", 3, "number of bot players")
	rounds := flag.Int("rounds", 2, "rounds to play")
	category := flag.String("category", "Animals", "word category")
	flag.Parse()

	c := &client{baseURL: *addr, http: &http.Client{Timeout: 10 * time.Second}}

	hostID := uuid.NewString()
	var created map[string]any
	err := c.post("/api/lobby/create", map[string]any{
		"player_name": "Host",
		"player_id":   hostID,
	}, &created)
	if err != nil {
		log.Fatalf("create lobby: %v", err)
	}
	code := created["code"].(string)
	log.Printf("lobby created code=%s", code)

	for i := 0; i < *botCount; i++ {
		err := c.post("/api/lobby/join", map[string]any{
			"code":        code,
			"player_name": fmt.Sprintf("Bot%d", i+1),
			"player_id":   bots.NewBotID(),
		}, nil)
		if err != nil {
			log.Fatalf("join bot: %v", err)
		}
	}

	err = c.post("/api/lobby/start", map[string]any{
		"code":         code,
		"player_id":    hostID,
		"category":     *category,
		"total_rounds": *rounds,
	}, nil)
	if err != nil {
		log.Fatalf("start game: %v", err)
	}
	log.Printf("game started code=%s rounds=%d", code, *rounds)

	timer := countdown.NewTimer()
	phaseEntered := time.Now()
	lastPhase := ""
	for {
		var snapshot map[string]any
		if err := c.get("/api/game/"+code+"?player_id="+hostID, &snapshot); err != nil {
			log.Fatalf("poll: %v", err)
		}
		lobby := snapshot["lobby"].(map[string]any)
		if lobby["status"] == "finished" {
			log.Printf("game finished code=%s", code)
			printScores(snapshot)
			return
		}

		round := snapshot["round"].(map[string]any)
		phase := round["phase"].(string)
		roundNumber := int(round["number"].(float64))
		if phase != lastPhase {
			log.Printf("phase=%s round=%d", phase, roundNumber)
			lastPhase = phase
			phaseEntered = time.Now()
		}

		timer.Observe(countdown.Anchor{
			Round:           roundNumber,
			Phase:           phase,
			DurationSeconds: int(lobby["round_duration_seconds"].(float64)),
			ElapsedSeconds:  int(round["elapsed_seconds"].(float64)),
			ReceivedAt:      time.Now(),
		})
		for _, mark := range timer.Tick(time.Now()) {
			log.Printf("timer warning remaining=%ds", mark)
		}

		if target := nextTarget(phase, snapshot, time.Since(phaseEntered)); target != "" {
			err := c.post("/api/game/phase", map[string]any{
				"code":      code,
				"player_id": hostID,
				"phase":     target,
			}, nil)
			if err != nil {
				log.Fatalf("advance phase: %v", err)
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// nextTarget decides the host's next phase request. Voting waits for every
// active player's vote (the host abstains) or a timeout, so the bot director
// gets room to fire.
func nextTarget(phase string, snapshot map[string]any, inPhase time.Duration) string {
	switch phase {
	case "word_reveal":
		if inPhase > 2*time.Second {
			return "discussion"
		}
	case "discussion":
		if inPhase > 3*time.Second {
			return "voting"
		}
	case "voting":
		votes, _ := snapshot["votes"].([]any)
		players, _ := snapshot["players"].([]any)
		eliminated, _ := snapshot["eliminated_ids"].([]any)
		active := len(players) - len(eliminated)
		if len(votes) >= active-1 || inPhase > 10*time.Second {
			return "results"
		}
	case "results":
		if inPhase > 2*time.Second {
			return "next_round"
		}
	}
	return ""
}

func printScores(snapshot map[string]any) {
	scores, _ := snapshot["scores"].([]any)
	for _, entry := range scores {
		row := entry.(map[string]any)
		log.Printf("score player=%v total=%v", row["player_id"], row["total_score"])
	}
}
