package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"grimoire/internal/models"
)

// TelegramService pushes progress notifications to a single configured chat.
// A nil or unconfigured service quietly skips every send.
type TelegramService struct {
	token   string
	chatID  int64
	baseURL string
	client  *http.Client
}

func NewTelegramService(botToken string, chatID int64) *TelegramService {
	return &TelegramService{
		token:   botToken,
		chatID:  chatID,
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", botToken),
		client:  &http.Client{},
	}
}

type tgResp struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *TelegramService) SendMessage(text string) error {
	if t == nil {
		return nil
	}
	if t.token == "" || t.chatID == 0 {
		log.Printf("[tg][skip] token or chat_id empty (token? %v chat_id=%d)", t.token != "", t.chatID)
		return nil
	}
	body := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	b, _ := json.Marshal(body)
	url := t.baseURL + "/sendMessage"
	req, _ := http.NewRequest("POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[tg][send] chat_id=%d text=%q", t.chatID, text)
	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("[tg][send][err] http: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var api tgResp
	_ = json.Unmarshal(respBody, &api)
	if resp.StatusCode != 200 || !api.Ok {
		log.Printf("[tg][send][err] status=%d body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("telegram sendMessage failed: status=%d ok=%v desc=%s", resp.StatusCode, api.Ok, api.Description)
	}
	return nil
}

// NotifyLevelUp announces a new level after a completion.
func (t *TelegramService) NotifyLevelUp(taskTitle string, level int) {
	text := fmt.Sprintf("⬆️ <b>Level up!</b>\nCompleting «%s» brought you to level <b>%d</b>.", taskTitle, level)
	if err := t.SendMessage(text); err != nil {
		log.Printf("[tg][levelup][err] %v", err)
	}
}

// NotifyDailyMission pushes the digest for a freshly generated mission.
func (t *TelegramService) NotifyDailyMission(mission *models.MissionView) {
	if mission == nil {
		return
	}
	text := fmt.Sprintf("🗡 <b>Daily mission — %s</b>\n", mission.Date.Format("Mon, 02 Jan"))
	if len(mission.Tasks) == 0 {
		text += "The grimoire is empty. Add some quests!"
	}
	for _, task := range mission.Tasks {
		text += fmt.Sprintf("• [%s] %s (+%d XP)\n", task.Priority, task.Title, task.Effort.XP())
	}
	if err := t.SendMessage(text); err != nil {
		log.Printf("[tg][mission][err] %v", err)
	}
}
