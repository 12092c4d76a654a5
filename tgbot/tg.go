package tgbot

import (
	"fmt"
	"strings"
	"time"

	"helperbot/bot"
	"helperbot/calc"
	"helperbot/db"
	"helperbot/reminder"
	"helperbot/webapi"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	BotName    = "HelperBot"
	BotVersion = "1.0.0"
)

const (
	txtPong          = "🏓 Pong!"
	txtCommandFailed = "❌ Something went wrong while running that command. Please try again"
	txtNotesCleared  = "✅ All notes cleared."
	txtNoNoteContent = "❌ Please provide note content."
	txtWeatherFailed = "❌ Sorry, I couldn't fetch the weather right now. Try again later"
	txtDefineFailed  = "❌ Could not find a definition. Try a different word or check spelling."
	txtBooksFailed   = "❌ Error searching books.\n\nTry visiting Project Gutenberg directly:\nhttps://www.gutenberg.org"
	txtNewsFailed    = "❌ Error fetching news. Try again later"

	txtFallbackQuote = "💭 *Inspirational Quote*\n\n" +
		"\"The only way to do great work is to love what you do.\"\n\n" +
		"— Steve Jobs\n" +
		"_motivation, work_"
	txtFallbackJoke = "😂 *Random Joke*\n\n" +
		"Why don't scientists trust atoms?\n\n" +
		"Because they make up everything!\n\n" +
		"_science, pun_"

	txtCleanTips = "🧹 *Media Cleanup Tips*\n\n" +
		"1. Review your chat storage settings and clear large caches\n" +
		"2. Delete forwarded media you no longer need\n" +
		"3. Filter for files larger than 5MB and prune them\n" +
		"4. Clear viewed status updates\n\n" +
		"_Note: The bot cannot access or delete your media for privacy reasons._"

	fmtUnknownCommand   = "❓ Unknown command: %s\nUse %shelp to see available commands."
	fmtLatency          = "⏱️ Latency: %dms"
	fmtWeatherUsage     = "❌ Please specify a location.\nUsage: %sweather [city]"
	fmtCalcUsage        = "❌ Please provide an expression.\nExample: %scalc 5 + 3 * 2"
	fmtDefineUsage      = "❌ Please provide a word to define.\nUsage: %sdefine [word]"
	fmtBadExpression    = "❌ Invalid expression: %s\nUse only numbers and + - * / operators."
	fmtBadTimeFormat    = "❌ Invalid format. Use:\n%sremind 30m Your message"
	fmtTooManyReminders = "❌ You have too many reminders (max %d).\nWait for some to fire before adding more"
	fmtReminderSet      = "✅ Reminder set for %s!\n\nMessage: %s\nYou have %d active reminders."
	fmtReminderFired    = "🔔 *Reminder*\n\n%s"
	fmtNoteAdded        = "✅ Note added! You now have %d notes."
	fmtNoNotes          = "📝 You don't have any notes saved.\nUse: %snotes add [your note]"
	fmtCalcResult       = "🧮 *Calculator*\n\nExpression: %s\nResult: %v\n\n_Note: Only basic math operations supported_"
	fmtNoBooksFound     = "❌ No books found for %q\nTry a different search term."
	fmtSaveOK           = "✅ Media save recorded (%d of %d left today).\n\n_Note: For privacy, actual media is not stored by the bot._"
	fmtSaveQuota        = "❌ Daily save limit reached (max %d per day). Try again tomorrow"

	fmtRemindUsage = "⏰ *Reminder Setup*\n\n" +
		"Usage: %[1]sremind [time] [message]\n\n" +
		"Examples:\n" +
		"• %[1]sremind 30m Call mom\n" +
		"• %[1]sremind 2h Team meeting\n" +
		"• %[1]sremind tomorrow 9am Submit report\n\n" +
		"Supported time formats:\n" +
		"• Xm (minutes)\n" +
		"• Xh (hours)\n" +
		"• Xd (days)\n" +
		"• tomorrow Xam/Xpm"

	fmtBookUsage = "📚 *Public Domain Books*\n\n" +
		"Usage: %[1]sbook [title/author]\n\n" +
		"Example: %[1]sbook sherlock holmes\n\n" +
		"_Searches Project Gutenberg for free books_"
)

// newsCategories is the set of categories the news command accepts.
var newsCategories = []string{"general", "business", "technology", "sports", "science"}

// staticHeadlines is served when no NewsAPI key is configured.
var staticHeadlines = []string{
	"AI Breakthrough in Medical Diagnosis",
	"Renewable Energy Hits Record High",
	"Global Tech Conference Announced",
	"New Space Mission Launched",
	"Climate Summit Updates",
}

// Sender delivers a plain-text message to a user. The Telegram client
// satisfies it through tgSender; tests substitute a fake.
type Sender interface {
	SendText(usr int64, text string) error
}

const (
	sendAttempts   = 3
	sendRetryDelay = time.Second
)

type tgSender struct {
	bot *tg.BotAPI
}

func (s tgSender) SendText(usr int64, text string) error {
	msg := tg.NewMessage(usr, text)

	var err error
	bot.RobustExecute(sendAttempts, sendRetryDelay, func() bool {
		_, err = s.bot.Send(msg)
		return err == nil
	})
	return errors.Wrap(err, "failed sending message")
}

type handler func(b *TBot, usr int64, args string)

type command struct {
	run handler
	// mutating commands trigger a store save after the handler returns
	mutating bool
}

var commands = map[string]command{
	"help":    {run: (*TBot).handleHelp},
	"about":   {run: (*TBot).handleAbout},
	"ping":    {run: (*TBot).handlePing},
	"stats":   {run: (*TBot).handleStats},
	"time":    {run: (*TBot).handleTime},
	"weather": {run: (*TBot).handleWeather},
	"quote":   {run: (*TBot).handleQuote},
	"joke":    {run: (*TBot).handleJoke},
	"remind":  {run: (*TBot).handleRemind, mutating: true},
	"notes":   {run: (*TBot).handleNotes, mutating: true},
	"calc":    {run: (*TBot).handleCalc},
	"define":  {run: (*TBot).handleDefine},
	"news":    {run: (*TBot).handleNews},
	"book":    {run: (*TBot).handleBook},
	"save":    {run: (*TBot).handleSave, mutating: true},
	"clean":   {run: (*TBot).handleClean},
}

type TBot struct {
	Bot             *tg.BotAPI
	DB              *db.Database
	Logger          *zap.SugaredLogger
	ReminderManager *reminder.Manager
	API             *webapi.Client

	sender Sender
	selfID int64
	prefix string
}

func NewTBot(cfg *bot.Config, d *db.Database, api *webapi.Client, l *zap.SugaredLogger) (*TBot, error) {
	b, err := tg.NewBotAPI(cfg.TgToken)
	if err != nil {
		l.Errorw("failed to initialize Telegram Bot", "err", err)
		return nil, err
	}

	b.Debug = false

	l.Infof("authorized on account %q (%q, %d)", b.Self.FirstName, b.Self.UserName, b.Self.ID)

	return &TBot{
		Bot:    b,
		DB:     d,
		Logger: l,
		API:    api,
		sender: tgSender{b},
		selfID: b.Self.ID,
		prefix: cfg.Prefix,
	}, nil
}

// Run consumes the update channel. Messages are dispatched strictly one at a
// time; only reminder delivery runs on its own schedule.
func (b *TBot) Run() {
	uCfg := tg.NewUpdate(0)
	uCfg.Timeout = 60

	for u := range b.Bot.GetUpdatesChan(uCfg) {
		if u.Message == nil || u.Message.From == nil {
			continue
		}
		b.Dispatch(u.Message.From.ID, u.Message.Text)
	}
}

// Dispatch parses raw text into a command invocation and routes it. Text
// without the command prefix and the bot's own messages are silently ignored.
func (b *TBot) Dispatch(usr int64, text string) {
	if usr == b.selfID {
		return
	}
	if !strings.HasPrefix(text, b.prefix) {
		return
	}

	rest := strings.TrimSpace(strings.TrimPrefix(text, b.prefix))
	name, args := splitCommand(rest)

	b.DB.Touch(usr)

	b.Logger.Infow("command received", "usr", usr, "cmd", name)

	cmd, ok := commands[name]
	if !ok {
		b.reply(usr, fmt.Sprintf(fmtUnknownCommand, name, b.prefix))
		return
	}

	b.invoke(cmd, name, usr, args)

	if cmd.mutating {
		if err := b.DB.Save(); err != nil {
			b.Logger.Errorw("failed persisting user data", "err", err)
		}
	}
}

// invoke runs the handler behind a recover barrier: nothing a handler does
// may take down the dispatch loop or leak an error past it.
func (b *TBot) invoke(cmd command, name string, usr int64, args string) {
	defer func() {
		if r := recover(); r != nil {
			b.Logger.Errorw("command handler panicked", "cmd", name, "panic", r)
			b.reply(usr, txtCommandFailed)
		}
	}()

	cmd.run(b, usr, args)
}

// splitCommand extracts the lower-cased command name and trimmed arguments.
func splitCommand(text string) (string, string) {
	name, args, _ := strings.Cut(text, " ")
	return strings.ToLower(name), strings.TrimSpace(args)
}

func (b *TBot) reply(usr int64, text string) {
	if err := b.sender.SendText(usr, text); err != nil {
		b.Logger.Errorw("failed sending reply", "usr", usr, "err", err)
	}
}

// SendReminder delivers a fired reminder to its owner. Passed to the
// reminder manager as its delivery callback.
func (b *TBot) SendReminder(usr int64, message string) {
	if err := b.sender.SendText(usr, fmt.Sprintf(fmtReminderFired, message)); err != nil {
		b.Logger.Errorw("failed delivering reminder", "usr", usr, "err", err)
	}
}

func (b *TBot) handleHelp(usr int64, _ string) {
	p := b.prefix
	helpText := fmt.Sprintf(`🤖 *%[2]s - Command List* 🤖

📝 *BASIC COMMANDS*
• %[1]shelp - Show this menu
• %[1]sabout - Bot information
• %[1]sping - Check bot status
• %[1]sstats - Show your usage stats

⏰ *PRODUCTIVITY*
• %[1]sremind [time] [message] - Set reminder
• %[1]snotes - List your notes
• %[1]snotes add [text] - Add note
• %[1]snotes clear - Clear notes

🔧 *UTILITIES*
• %[1]stime - Current time
• %[1]sweather [city] - Weather forecast
• %[1]scalc [expression] - Calculator
• %[1]sdefine [word] - Dictionary
• %[1]squote - Random quote
• %[1]sjoke - Random joke
• %[1]snews [category] - Top news

📚 *LEGAL MEDIA*
• %[1]sbook [title] - Search public domain books
• %[1]ssave - Save your own media with caption
• %[1]sclean - Clean duplicate media

Version: %[3]s`, p, BotName, BotVersion)

	b.reply(usr, helpText)
}

func (b *TBot) handleAbout(usr int64, _ string) {
	b.reply(usr, fmt.Sprintf(`🤖 *%s*
Version: %s

An assistant bot designed to help with productivity and organization.

🔒 *Privacy First*
• No message logging
• No data sharing
• Your data stays with you

⚡ *Features*
• Reminders & Notes
• Public content access
• Utility tools
• Media organization

Use %shelp to see all commands.`, BotName, BotVersion, b.prefix))
}

func (b *TBot) handlePing(usr int64, _ string) {
	start := time.Now()
	b.reply(usr, txtPong)
	b.reply(usr, fmt.Sprintf(fmtLatency, time.Since(start).Milliseconds()))
}

func (b *TBot) handleStats(usr int64, _ string) {
	s := b.DB.UserStats(usr)
	b.reply(usr, fmt.Sprintf(`📊 *Your Stats*

Reminders set: %d
Notes saved: %d
Downloads today: %d

🎯 *Bot Stats*
Total users: %d
Version: %s`, s.Reminders, s.Notes, s.Downloads, s.TotalUsers, BotVersion))
}

func (b *TBot) handleTime(usr int64, _ string) {
	now := time.Now()
	zone, _ := now.Zone()
	b.reply(usr, fmt.Sprintf("⏰ *Current Time*\n\n📅 Date: %s\n🕐 Time: %s\n🌍 Timezone: %s",
		now.Format("02 Jan 2006"), now.Format("15:04:05"), zone))
}

func (b *TBot) handleWeather(usr int64, args string) {
	if args == "" {
		b.reply(usr, fmt.Sprintf(fmtWeatherUsage, b.prefix))
		return
	}

	report, err := b.API.Weather(args)
	if err != nil {
		b.Logger.Errorw("failed fetching weather", "city", args, "err", err)
		b.reply(usr, txtWeatherFailed)
		return
	}

	w := report.Current
	b.reply(usr, fmt.Sprintf("🌤️ *Weather for %s*\n\nTemperature: %.1f°C\nWind Speed: %.1f km/h\nWind Direction: %.0f°\nWeather Code: %d",
		report.Place, w.Temperature, w.WindSpeed, w.WindDirection, w.WeatherCode))
}

func (b *TBot) handleQuote(usr int64, _ string) {
	q, err := b.API.Quote()
	if err != nil {
		b.Logger.Errorw("failed fetching quote", "err", err)
		b.reply(usr, txtFallbackQuote)
		return
	}

	b.reply(usr, fmt.Sprintf("💭 *Daily Quote*\n\n\"%s\"\n\n— %s\n_%s_",
		q.Content, q.Author, strings.Join(q.Tags, ", ")))
}

func (b *TBot) handleJoke(usr int64, _ string) {
	j, err := b.API.Joke()
	if err != nil {
		b.Logger.Errorw("failed fetching joke", "err", err)
		b.reply(usr, txtFallbackJoke)
		return
	}

	jokeText := "😂 *Random Joke*\n\n"
	if j.Type == "single" {
		jokeText += j.Joke
	} else {
		jokeText += j.Setup + "\n\n" + j.Delivery
	}
	if j.Category != "" {
		jokeText += "\n\n_" + j.Category + "_"
	}

	b.reply(usr, jokeText)
}

func (b *TBot) handleRemind(usr int64, args string) {
	if args == "" {
		b.reply(usr, fmt.Sprintf(fmtRemindUsage, b.prefix))
		return
	}

	spec, message, err := reminder.Parse(args)
	if err != nil {
		b.reply(usr, fmt.Sprintf(fmtBadTimeFormat, b.prefix))
		return
	}

	if _, err := b.ReminderManager.Schedule(usr, message, spec); err != nil {
		if errors.Is(err, reminder.ErrQuotaExceeded) {
			b.reply(usr, fmt.Sprintf(fmtTooManyReminders, db.MaxReminders))
			return
		}
		b.Logger.Errorw("failed scheduling reminder", "usr", usr, "err", err)
		b.reply(usr, txtCommandFailed)
		return
	}

	active := len(b.DB.Reminders(usr))
	b.reply(usr, fmt.Sprintf(fmtReminderSet, spec, message, active))
}

func (b *TBot) handleNotes(usr int64, args string) {
	switch sub, rest := splitCommand(args); sub {
	case "add":
		if rest == "" {
			b.reply(usr, txtNoNoteContent)
			return
		}
		count := b.DB.AddNote(usr, rest)
		b.reply(usr, fmt.Sprintf(fmtNoteAdded, count))

	case "clear":
		b.DB.ClearNotes(usr)
		b.reply(usr, txtNotesCleared)

	default:
		notes := b.DB.Notes(usr)
		if len(notes) == 0 {
			b.reply(usr, fmt.Sprintf(fmtNoNotes, b.prefix))
			return
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📝 *Your Notes* (%d)\n\n", len(notes))
		for i, n := range notes {
			fmt.Fprintf(&sb, "%d. %s\n   📅 %s\n\n", i+1, n.Content, n.CreatedAt.Format("02 Jan 2006"))
		}
		fmt.Fprintf(&sb, "\nUse \"%snotes add [text]\" to add more notes.", b.prefix)
		b.reply(usr, sb.String())
	}
}

func (b *TBot) handleCalc(usr int64, args string) {
	if args == "" {
		b.reply(usr, fmt.Sprintf(fmtCalcUsage, b.prefix))
		return
	}

	result, err := calc.Eval(args)
	if err != nil {
		b.reply(usr, fmt.Sprintf(fmtBadExpression, args))
		return
	}

	b.reply(usr, fmt.Sprintf(fmtCalcResult, args, result))
}

func (b *TBot) handleDefine(usr int64, args string) {
	if args == "" {
		b.reply(usr, fmt.Sprintf(fmtDefineUsage, b.prefix))
		return
	}

	entry, err := b.API.Define(args)
	if err != nil {
		b.Logger.Errorw("failed fetching definition", "word", args, "err", err)
		b.reply(usr, txtDefineFailed)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 *Definition of %s*\n\n", entry.Word)
	for _, meaning := range entry.Meanings {
		fmt.Fprintf(&sb, "*%s*\n", meaning.PartOfSpeech)

		defs := meaning.Definitions
		if len(defs) > 2 {
			defs = defs[:2]
		}
		for i, def := range defs {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, def.Definition)
			if def.Example != "" {
				fmt.Fprintf(&sb, "   Example: \"%s\"\n", def.Example)
			}
		}
		sb.WriteString("\n")
	}
	if entry.Phonetic != "" {
		fmt.Fprintf(&sb, "🔊 Phonetic: %s\n", entry.Phonetic)
	}

	b.reply(usr, sb.String())
}

func (b *TBot) handleNews(usr int64, args string) {
	category := "general"
	for _, c := range newsCategories {
		if strings.EqualFold(args, c) {
			category = c
			break
		}
	}

	headlines, err := b.API.News(category)
	if err != nil && !errors.Is(err, webapi.ErrNoNewsKey) {
		b.Logger.Errorw("failed fetching news", "category", category, "err", err)
		b.reply(usr, txtNewsFailed)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📰 *News Headlines*\n\nCategory: %s\n\n", strings.ToUpper(category))
	if err != nil {
		// no API key configured: serve the built-in sample headlines
		for i, h := range staticHeadlines {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, h)
		}
	} else {
		if len(headlines) > 5 {
			headlines = headlines[:5]
		}
		for i, h := range headlines {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, h.Title)
		}
	}
	fmt.Fprintf(&sb, "\nAvailable categories: %s", strings.Join(newsCategories, ", "))

	b.reply(usr, sb.String())
}

func (b *TBot) handleBook(usr int64, args string) {
	if args == "" {
		b.reply(usr, fmt.Sprintf(fmtBookUsage, b.prefix))
		return
	}

	books, err := b.API.SearchBooks(args)
	if err != nil {
		b.Logger.Errorw("failed searching books", "query", args, "err", err)
		b.reply(usr, txtBooksFailed)
		return
	}

	if len(books) == 0 {
		b.reply(usr, fmt.Sprintf(fmtNoBooksFound, args))
		return
	}

	if len(books) > 5 {
		books = books[:5]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 *Search Results for %q*\n\n", args)
	for i, book := range books {
		authors := make([]string, len(book.Authors))
		for j, a := range book.Authors {
			authors[j] = a.Name
		}

		subjects := book.Subjects
		if len(subjects) > 3 {
			subjects = subjects[:3]
		}

		formats := make([]string, 0, 3)
		for f := range book.Formats {
			formats = append(formats, f)
			if len(formats) == 3 {
				break
			}
		}

		fmt.Fprintf(&sb, "%d. *%s*\n", i+1, book.Title)
		fmt.Fprintf(&sb, "   Author: %s\n", strings.Join(authors, ", "))
		fmt.Fprintf(&sb, "   Subjects: %s\n", strings.Join(subjects, ", "))
		fmt.Fprintf(&sb, "   Formats: %s\n\n", strings.Join(formats, ", "))
	}
	sb.WriteString("🔗 *How to Download*\nVisit: https://www.gutenberg.org\nSearch for your book and download for free!\n\n_Note: All books are in public domain_")

	b.reply(usr, sb.String())
}

func (b *TBot) handleSave(usr int64, _ string) {
	remaining, ok := b.DB.RegisterDownload(usr)
	if !ok {
		b.reply(usr, fmt.Sprintf(fmtSaveQuota, db.MaxDownloadsPerDay))
		return
	}

	b.reply(usr, fmt.Sprintf(fmtSaveOK, remaining, db.MaxDownloadsPerDay))
}

func (b *TBot) handleClean(usr int64, _ string) {
	b.reply(usr, txtCleanTips)
}
