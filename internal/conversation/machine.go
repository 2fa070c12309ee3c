// Package conversation implements the trip dialogue: destination, start
// date, duration, purpose, then generation and storage of the checklist.
// It is transport-neutral; the chat adapter feeds it text and delivers its
// replies through an Outbox.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/packing"
	"github.com/pkordes/packlist/internal/purpose"
	"github.com/pkordes/packlist/internal/weather"
)

// PriorLimit is how many earlier checklists personalize a new one.
const PriorLimit = 3

// Outbox delivers messages to the user of the current update.
type Outbox interface {
	Send(ctx context.Context, r Reply) (messageID int, err error)
	Delete(ctx context.Context, messageID int) error
}

// WeatherSource summarizes the forecast for a trip.
type WeatherSource interface {
	Summarize(ctx context.Context, destination string, periodDays int) (weather.Report, error)
}

// PurposeResolver classifies free purpose text against the catalog.
type PurposeResolver interface {
	Resolve(ctx context.Context, text string) purpose.Result
}

// Generator builds the categorized packing list.
type Generator interface {
	Generate(ctx context.Context, req packing.Request) domain.CategorizedList
}

// Store persists users and checklists.
type Store interface {
	ResolveUser(ctx context.Context, p domain.Profile) (domain.User, error)
	RecentPrior(ctx context.Context, owner uuid.UUID, limit int) ([]domain.PriorChecklist, error)
	CreateTravel(ctx context.Context, owner uuid.UUID, title string, meta domain.TripMetadata, list domain.CategorizedList) (domain.ChecklistWithItems, error)
}

// Machine runs trip conversations for many users at once. Steps of one user
// are serialized by the session lock; users never share state.
type Machine struct {
	sessions *Sessions
	weather  WeatherSource
	purposes PurposeResolver
	engine   Generator
	store    Store
	links    Links
	now      func() time.Time
	log      *slog.Logger
}

// NewMachine wires a Machine. weather may be nil, in which case every trip
// continues without a forecast.
func NewMachine(sessions *Sessions, w WeatherSource, p PurposeResolver, g Generator, s Store, links Links, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		sessions: sessions,
		weather:  w,
		purposes: p,
		engine:   g,
		store:    s,
		links:    links,
		now:      time.Now,
		log:      log,
	}
}

var dateRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

var errMissingField = errors.New("required trip detail missing")

const (
	msgAskDestination = "✈️ Let's build a packing list for your trip!\n\nWhere are you going? Enter a city."
	msgDateFormat     = "Please enter the date as DD.MM.YYYY (for example %s)."
	msgDateInvalid    = "That date does not exist. Please check it and try again."
	msgDatePast       = "The trip start date must be in the future. Please enter a valid date."
	msgAskDuration    = "How many days will the trip last? Enter a number:"
	msgDurationBad    = "Please enter a valid number of days (greater than 0)."
	msgWeatherFailed  = "⚠️ Could not get the weather forecast. We will continue without it."
	msgAskPurpose     = "What is the purpose of your trip? Describe it in a few words or pick one below."
	msgPurposeEmpty   = "Please describe the purpose of your trip."
	msgWorking        = "⏳ Putting your packing list together, this can take a moment..."
	msgMissingData    = "😔 Something went wrong: some trip details are missing. Please start again with /newtrip"
	msgSaveFailed     = "😔 Sorry, I could not save your list. Please start again with /newtrip"
	msgCancelled      = "Trip planning cancelled. Use /newtrip to start again."
	msgNothingToStop  = "There is nothing to cancel. Use /newtrip to plan a trip."
)

// Start discards any session of the user and asks for the destination.
func (m *Machine) Start(ctx context.Context, p domain.Profile, out Outbox) {
	m.sessions.Begin(p.ExternalID)
	m.interaction(p, "new_trip")
	m.send(ctx, out, Reply{Text: msgAskDestination})
}

// Cancel ends the user's session at once. A step still running for it
// finishes without saving anything.
func (m *Machine) Cancel(ctx context.Context, p domain.Profile, out Outbox) {
	if !m.sessions.Cancel(p.ExternalID) {
		m.send(ctx, out, Reply{Text: msgNothingToStop})
		return
	}
	m.interaction(p, "cancel")
	m.send(ctx, out, Reply{Text: msgCancelled})
}

// Active reports whether the user is in the middle of a trip conversation.
func (m *Machine) Active(userID int64) bool {
	_, ok := m.sessions.Get(userID)
	return ok
}

// Handle feeds one text answer into the user's conversation. It reports
// false when the user has no conversation in progress.
func (m *Machine) Handle(ctx context.Context, p domain.Profile, text string, out Outbox) bool {
	s, ok := m.sessions.Get(p.ExternalID)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed() {
		return true
	}

	var err error
	switch s.State {
	case AwaitingDestination:
		m.onDestination(ctx, p, s, text, out)
	case AwaitingStartDate:
		err = m.onStartDate(ctx, p, s, text, out)
	case AwaitingDuration:
		err = m.onDuration(ctx, p, s, text, out)
	case AwaitingPurpose:
		err = m.onPurpose(ctx, p, s, text, out)
	default:
		err = errMissingField
	}

	switch {
	case errors.Is(err, errMissingField):
		m.log.Error("conversation aborted", "user_id", p.ExternalID, "state", s.State.String(), "error", err)
		m.sessions.Finish(p.ExternalID, s)
		m.send(ctx, out, Reply{Text: msgMissingData})
	case err != nil:
		m.log.Error("conversation failed", "user_id", p.ExternalID, "state", s.State.String(), "error", err)
		m.sessions.Finish(p.ExternalID, s)
		m.send(ctx, out, Reply{Text: msgSaveFailed})
	case s.State == Completed:
		m.sessions.Finish(p.ExternalID, s)
	default:
		m.sessions.Touch(p.ExternalID, s)
	}
	return true
}

func (m *Machine) onDestination(ctx context.Context, p domain.Profile, s *Session, text string, out Outbox) {
	dest := strings.TrimSpace(text)
	if dest == "" {
		m.send(ctx, out, Reply{Text: msgAskDestination})
		return
	}
	s.Destination = dest
	s.State = AwaitingStartDate
	m.interaction(p, "destination_input", "destination", dest)

	example := m.now().AddDate(0, 1, 0).Format(domain.DateLayout)
	m.send(ctx, out, Reply{Text: fmt.Sprintf(
		"🌍 Great! You are going to %s.\n\nWhen does the trip start? Enter the date as DD.MM.YYYY\nFor example: %s", dest, example)})
}

func (m *Machine) onStartDate(ctx context.Context, p domain.Profile, s *Session, text string, out Outbox) error {
	if s.Destination == "" {
		return errMissingField
	}

	text = strings.TrimSpace(text)
	now := m.now()
	if !dateRe.MatchString(text) {
		m.send(ctx, out, Reply{Text: fmt.Sprintf(msgDateFormat, now.AddDate(0, 1, 0).Format(domain.DateLayout))})
		return nil
	}
	date, err := time.ParseInLocation(domain.DateLayout, text, now.Location())
	if err != nil {
		m.send(ctx, out, Reply{Text: msgDateInvalid})
		return nil
	}
	if !date.After(now) {
		m.send(ctx, out, Reply{Text: msgDatePast})
		return nil
	}

	s.StartDateText = text
	s.StartDate = date
	s.State = AwaitingDuration
	m.interaction(p, "start_date_input", "start_date", text)
	m.send(ctx, out, Reply{Text: msgAskDuration})
	return nil
}

func (m *Machine) onDuration(ctx context.Context, p domain.Profile, s *Session, text string, out Outbox) error {
	if s.Destination == "" || s.StartDateText == "" {
		return errMissingField
	}

	days, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || days <= 0 {
		m.log.Warn("invalid duration input", "user_id", p.ExternalID, "input", text)
		m.send(ctx, out, Reply{Text: msgDurationBad})
		return nil
	}
	s.DurationDays = days
	m.interaction(p, "duration_input", "duration", days)

	report, err := m.forecast(ctx, s.Destination, days)
	if s.Closed() {
		return nil
	}
	if err != nil {
		m.log.Warn("weather unavailable", "user_id", p.ExternalID, "destination", s.Destination, "error", err)
		m.send(ctx, out, Reply{Text: msgWeatherFailed})
	} else {
		s.Weather = &report
		m.send(ctx, out, Reply{Text: fmt.Sprintf("🌍 Weather forecast for %s for the trip period:\n\n%s",
			s.Destination, weather.FormatSummary(report.Summary))})
	}

	s.State = AwaitingPurpose
	m.send(ctx, out, Reply{Text: msgAskPurpose, Buttons: purposeButtons()})
	return nil
}

func (m *Machine) forecast(ctx context.Context, destination string, days int) (weather.Report, error) {
	if m.weather == nil {
		return weather.Report{}, domain.ErrWeatherUnavailable
	}
	return m.weather.Summarize(ctx, destination, days)
}

func (m *Machine) onPurpose(ctx context.Context, p domain.Profile, s *Session, text string, out Outbox) error {
	if s.Destination == "" || s.StartDateText == "" || s.DurationDays <= 0 {
		return errMissingField
	}
	text = strings.TrimSpace(text)
	if text == "" {
		m.send(ctx, out, Reply{Text: msgPurposeEmpty, Buttons: purposeButtons()})
		return nil
	}
	s.PurposeText = text
	m.interaction(p, "purpose_input", "purpose_text", text)

	interim, err := out.Send(ctx, Reply{Text: msgWorking})
	shown := err == nil
	dropInterim := func() {
		if !shown {
			return
		}
		shown = false
		if err := out.Delete(ctx, interim); err != nil {
			m.log.Warn("could not remove interim message", "user_id", p.ExternalID, "error", err)
		}
	}
	defer dropInterim()

	saved, list, err := m.complete(ctx, p, s)
	if err != nil || s.Closed() {
		return err
	}
	s.State = Completed
	dropInterim()
	m.send(ctx, out, completionReply(saved, list, m.links))
	return nil
}

// complete classifies, generates and stores the checklist. A session closed
// while this runs stores nothing.
func (m *Machine) complete(ctx context.Context, p domain.Profile, s *Session) (domain.ChecklistWithItems, domain.CategorizedList, error) {
	user, err := m.store.ResolveUser(ctx, p)
	if err != nil {
		return domain.ChecklistWithItems{}, domain.CategorizedList{}, fmt.Errorf("conversation.Machine.complete: %w", err)
	}

	res := m.purposes.Resolve(ctx, s.PurposeText)
	s.PurposeCategory = res.Name()

	prior, err := m.store.RecentPrior(ctx, user.ID, PriorLimit)
	if err != nil {
		m.log.Warn("personalization disabled", "user_id", p.ExternalID, "error", err)
		prior = nil
	}

	req := packing.Request{
		Destination:     s.Destination,
		PurposeText:     s.PurposeText,
		PurposeCategory: s.PurposeCategory,
		DurationDays:    s.DurationDays,
		StartDate:       s.StartDate,
		Prior:           prior,
	}
	meta := domain.TripMetadata{
		Destination:  s.Destination,
		DurationDays: s.DurationDays,
		StartDate:    s.StartDateText,
		PurposeText:  s.PurposeText,
		Purpose:      s.PurposeCategory,
	}
	if s.Weather != nil {
		req.Weather = &s.Weather.Summary
		meta.Weather = &s.Weather.Forecast
		meta.AggregatedWeather = &s.Weather.Summary
	}

	list := m.engine.Generate(ctx, req)
	meta.GenerationMethod = list.Method
	if s.Closed() {
		m.log.Info("session closed during generation, result discarded", "user_id", p.ExternalID)
		return domain.ChecklistWithItems{}, list, nil
	}

	title := Title(s.Destination, s.StartDateText, s.PurposeText, s.DurationDays)
	saved, err := m.store.CreateTravel(ctx, user.ID, title, meta, list)
	if err != nil {
		return domain.ChecklistWithItems{}, list, fmt.Errorf("conversation.Machine.complete: %w", err)
	}
	m.log.Info("checklist saved",
		"user_id", p.ExternalID,
		"checklist_id", saved.Checklist.ID,
		"purpose", s.PurposeCategory,
		"method", list.Method,
		"items", list.Len(),
	)
	return saved, list, nil
}

func (m *Machine) send(ctx context.Context, out Outbox, r Reply) {
	if _, err := out.Send(ctx, r); err != nil {
		m.log.Warn("send failed", "error", err)
	}
}

func (m *Machine) interaction(p domain.Profile, action string, attrs ...any) {
	m.log.Info("user interaction", append([]any{"user_id", p.ExternalID, "username", p.Username, "action", action}, attrs...)...)
}
