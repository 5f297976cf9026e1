package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ai-event-planner/internal/app"
	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/config"
	"ai-event-planner/internal/metrics"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// contextBloatTokens triggers an admin alert when a single prompt grows past it.
const contextBloatTokens = 8000

// messenger is the subset of *tgbotapi.BotAPI the bot uses.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UsageReporter provides the numbers behind /metrics.
type UsageReporter interface {
	GetDailyUsage(days int) ([]metrics.DailyUsage, error)
}

// Bot wraps the Telegram API and the event planner.
type Bot struct {
	api     messenger
	app     *app.App
	usage   UsageReporter
	cfg     *config.Config
	chats   *Conversations
	log     *zap.Logger
	timeout time.Duration
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, usage UsageReporter, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("Authorized on account", zap.String("username", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.Telegram.WebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.Telegram.WebhookURL, err)
	}
	log.Info("Webhook set", zap.String("response", resp.Description))

	return newBot(api, cfg, application, usage, log), nil
}

func newBot(api messenger, cfg *config.Config, application *app.App, usage UsageReporter, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:     api,
		app:     application,
		usage:   usage,
		cfg:     cfg,
		chats:   NewConversations(cfg.Telegram.SessionTTL),
		log:     log,
		timeout: 2 * time.Minute,
	}
}

// Sessions exposes the per-chat state store.
func (b *Bot) Sessions() *Conversations {
	return b.chats
}

// Handler returns the webhook and health endpoints.
func (b *Bot) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("Error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	switch {
	case update.CallbackQuery != nil:
		if !b.isAllowed(update.CallbackQuery.From) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
	case update.Message != nil:
		if !b.isAllowed(update.Message.From) {
			return
		}
		go b.processMessage(update.Message)
	}
}

func (b *Bot) isAllowed(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	for _, id := range b.cfg.Telegram.AllowedUserIDs {
		if user.ID == id {
			return true
		}
	}
	b.log.Warn("Unauthorized access attempt", zap.Int64("user_id", user.ID), zap.String("username", user.UserName))
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.Command() == "metrics" {
		b.handleMetricsRequest(msg)
		return
	}

	ch := b.chats.acquire(chatID)
	defer ch.mu.Unlock()

	switch msg.Command() {
	case "start", "new":
		ch.form = &briefForm{}
		b.sendMarkdown(chatID, "🎉 *Let's plan your event!*\nAnswer a few questions, one message each. Send /cancel to stop.\n\n"+
			fieldPrompt(ch.form.field(), 0))
		return
	case "cancel":
		ch.form = nil
		b.sendMarkdown(chatID, "Okay, cancelled. Send /new to start again.")
		return
	case "plan":
		if !ch.sess.HasPlan() {
			b.sendMarkdown(chatID, "No plan yet. Send /new to describe your event.")
			return
		}
		b.sendPlan(chatID, 0, ch.sess.Plan())
		return
	case "checklist":
		list := ch.sess.Checklist()
		if list.Empty() {
			b.sendMarkdown(chatID, "No checklist yet. Tap 📋 *Checklist* under a plan to create one.")
			return
		}
		reply := tgbotapi.NewMessage(chatID, formatChecklist(list, 0))
		reply.ReplyMarkup = checklistKeyboard(list, 0)
		b.send(reply)
		return
	case "export":
		b.sendExport(chatID, ch)
		return
	case "help":
		b.sendMarkdown(chatID, helpText)
		return
	}

	if ch.form == nil {
		b.sendMarkdown(chatID, helpText)
		return
	}
	b.answerField(chatID, ch, msg.Text)
}

const helpText = "Send /new to plan an event.\n" +
	"/plan shows the current plan, /checklist the checklist and /export sends the plan as a file."

// answerField stores one answer of the brief form and asks the next question, or submits
// the brief after the last one. Invalid numbers are asked again.
func (b *Bot) answerField(chatID int64, ch *chat, text string) {
	f := ch.form.field()
	if strings.TrimSpace(text) == "" {
		b.sendMarkdown(chatID, "Please send some text.\n\n"+fieldPrompt(f, ch.form.step))
		return
	}
	if err := ch.form.brief.Set(f, text); err != nil {
		b.sendMarkdown(chatID, fmt.Sprintf("⚠️ %v\n\n%s", err, fieldPrompt(f, ch.form.step)))
		return
	}
	if (f == planner.FieldGuestCount && ch.form.brief.GuestCount < 1) || (f == planner.FieldBudget && !(ch.form.brief.Budget > 0)) {
		b.sendMarkdown(chatID, fmt.Sprintf("⚠️ %s must be greater than zero.\n\n%s", f.Label(), fieldPrompt(f, ch.form.step)))
		return
	}

	ch.form.step++
	if !ch.form.done() {
		b.sendMarkdown(chatID, fieldPrompt(ch.form.field(), ch.form.step))
		return
	}

	brief := ch.form.brief
	ch.form = nil
	b.generateAndSendPlan(chatID, ch, brief)
}

func (b *Bot) generateAndSendPlan(chatID int64, ch *chat, brief planner.EventBrief) {
	sent, err := b.sendMarkdown(chatID, "🎉 *Thinking...*\n(Drafting your event plan)")
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	res := b.app.SubmitBrief(ctx, ch.sess, brief)
	b.checkContextBloat(res.Meta.Action, res.Meta.Usage.PromptTokens, res.Meta.Usage.Model)

	if !res.OK() {
		b.editMarkdown(chatID, sent.MessageID, "❌ *Could not generate a plan:*\n"+escapeMarkdown(res.Text))
		if res.Outcome == planner.OutcomeFailed {
			b.sendAdminAlert(fmt.Sprintf("⚠️ *Plan generation failed*\nChat: %d\nError: %s", chatID, escapeMarkdown(res.Err.Error())))
		}
		return
	}
	b.sendPlan(chatID, sent.MessageID, res.Text)
}

// sendPlan delivers plan text in as many messages as needed. When messageID is set the
// first chunk replaces that message. The refinement buttons go on the last chunk.
func (b *Bot) sendPlan(chatID int64, messageID int, text string) {
	chunks := splitMessage(text, maxMessageLen)
	keyboard := refineKeyboard()
	for i, chunk := range chunks {
		last := i == len(chunks)-1
		if i == 0 && messageID != 0 {
			edit := tgbotapi.NewEditMessageText(chatID, messageID, chunk)
			if last {
				edit.ReplyMarkup = &keyboard
			}
			b.send(edit)
			continue
		}
		msg := tgbotapi.NewMessage(chatID, chunk)
		if last {
			msg.ReplyMarkup = keyboard
		}
		b.send(msg)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	action, arg, ok := parseCallback(query.Data)
	if !ok {
		b.answerCallback(query.ID, "")
		return
	}

	ch := b.chats.acquire(chatID)
	defer ch.mu.Unlock()

	switch action {
	case actionRefine:
		b.answerCallback(query.ID, "")
		b.refine(chatID, ch, planner.Refinement(arg))
	case actionToggle:
		i, err := strconv.Atoi(arg)
		if err != nil {
			b.answerCallback(query.ID, "")
			return
		}
		if _, err := ch.sess.ToggleTask(i); err != nil {
			b.answerCallback(query.ID, "This checklist is no longer available.")
			return
		}
		b.answerCallback(query.ID, "")
		b.editChecklist(chatID, query.Message.MessageID, ch.sess.Checklist(), pageOf(i))
	case actionPage:
		page, err := strconv.Atoi(arg)
		list := ch.sess.Checklist()
		if err != nil || list.Empty() {
			b.answerCallback(query.ID, "This checklist is no longer available.")
			return
		}
		b.answerCallback(query.ID, "")
		b.editChecklist(chatID, query.Message.MessageID, list, page)
	default:
		b.answerCallback(query.ID, "")
	}
}

func (b *Bot) refine(chatID int64, ch *chat, r planner.Refinement) {
	if !ch.sess.HasPlan() {
		b.sendMarkdown(chatID, "No plan yet. Send /new to describe your event.")
		return
	}

	sent, err := b.sendMarkdown(chatID, fmt.Sprintf("🎉 *Thinking...*\n(%s)", r.Label()))
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	res, err := b.app.Refine(ctx, ch.sess, r)
	b.checkContextBloat(res.Meta.Action, res.Meta.Usage.PromptTokens, res.Meta.Usage.Model)
	if err != nil {
		b.editMarkdown(chatID, sent.MessageID, "❌ *Refinement failed:*\n"+escapeMarkdown(err.Error()))
		return
	}

	if r != planner.RefineChecklist {
		b.sendPlan(chatID, sent.MessageID, res.Text)
		return
	}
	if res.Checklist == nil {
		b.editMarkdown(chatID, sent.MessageID, "The model returned no checklist items. Try again.")
		return
	}
	b.editChecklist(chatID, sent.MessageID, res.Checklist, 0)
}

func (b *Bot) editChecklist(chatID int64, messageID int, list *checklist.Checklist, page int) {
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, formatChecklist(list, page), checklistKeyboard(list, page)))
}

// sendExport sends the plan and checklist as a markdown document.
func (b *Bot) sendExport(chatID int64, ch *chat) {
	if !ch.sess.HasPlan() {
		b.sendMarkdown(chatID, "No plan yet. Send /new to describe your event.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  storage.FileName(ch.sess.Brief().EventType, time.Now()) + ".md",
		Bytes: []byte(storage.Render(ch.sess.Plan(), ch.sess.Checklist())),
	})
	b.send(doc)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID != b.cfg.Telegram.AdminID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	if b.usage == nil {
		b.sendMarkdown(chatID, "❌ Metrics are not enabled.")
		return
	}
	usage, err := b.usage.GetDailyUsage(7)
	if err != nil {
		b.log.Error("Error fetching metrics", zap.Error(err))
		b.sendMarkdown(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath), b.cfg.ExportDir)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d calls, %d failed)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failures)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataDiskSize)
	fmt.Fprintf(&sb, "• Active chats: %d\n", b.chats.Len())

	b.sendMarkdown(chatID, sb.String())
}

func (b *Bot) checkContextBloat(action string, promptTokens int, model string) {
	if promptTokens <= contextBloatTokens {
		return
	}
	b.sendAdminAlert(fmt.Sprintf("⚠️ *Context Bloat Alert*\nAction: %s\nModel: %s\nPrompt Tokens: %d",
		escapeMarkdown(action), escapeMarkdown(model), promptTokens))
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.Telegram.AdminID == 0 {
		return
	}
	b.sendMarkdown(b.cfg.Telegram.AdminID, text)
}

func (b *Bot) sendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return b.send(msg)
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := b.api.Send(c)
	if err != nil {
		b.log.Warn("Failed to send telegram message", zap.Error(err))
	}
	return sent, err
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Debug("Failed to answer callback", zap.Error(err))
	}
}

// escapeMarkdown neutralizes the characters legacy Markdown treats as entities.
func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

var markdownReplacer = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "'", "[", "\\[")
