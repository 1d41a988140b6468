package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmajors/daykeeper/internal/models"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

const testBuffer = 10 * time.Minute

type fakeSource struct {
	kind     models.Kind
	entities []*models.DueEntity
	err      error
}

func (f *fakeSource) Kind() models.Kind { return f.kind }

func (f *fakeSource) DueReminders(ctx context.Context, from, until time.Time) ([]*models.DueEntity, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Deliberately a superset: the engine must re-filter locally.
	return f.entities, nil
}

type fakeStore struct {
	markErr     error
	marked      []int64
	rescheduled map[int64]time.Time
}

func (f *fakeStore) MarkSent(ctx context.Context, reminderID int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, reminderID)
	return nil
}

func (f *fakeStore) Reschedule(ctx context.Context, reminderID int64, next time.Time) error {
	if f.rescheduled == nil {
		f.rescheduled = make(map[int64]time.Time)
	}
	f.rescheduled[reminderID] = next
	return nil
}

type sentMessage struct {
	method  models.Method
	to      models.Contact
	subject string
	body    string
}

type fakeDispatcher struct {
	mu       sync.Mutex
	sent     []sentMessage
	errFor   map[models.Method]error
	failNext int // fail this many calls, then succeed
}

func (f *fakeDispatcher) Send(ctx context.Context, method models.Method, to models.Contact, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return errors.New("provider unavailable")
	}
	if err := f.errFor[method]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{method, to, subject, body})
	return nil
}

func (f *fakeDispatcher) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeAudit struct {
	records []*models.Notification
}

func (f *fakeAudit) Record(ctx context.Context, n *models.Notification) error {
	f.records = append(f.records, n)
	return nil
}

func newTestEngine(sources []EntitySource, store ReminderStore, d *fakeDispatcher, audit NotificationLog) *Engine {
	e := NewEngine(sources, store, d, audit, testBuffer)
	e.now = func() time.Time { return testNow }
	return e
}

func owner() *models.Contact {
	return &models.Contact{Email: "sam@example.com", Phone: "+15550100", ChatID: 4242}
}

func reminderAt(id int64, at time.Time, method models.Method) *models.Reminder {
	return &models.Reminder{ReminderID: id, RemindAt: at, Method: method}
}

func dueEntity(kind models.Kind, id int64, title string, when time.Time, contact *models.Contact, reminders ...*models.Reminder) *models.DueEntity {
	return &models.DueEntity{
		Kind:      kind,
		EntityID:  id,
		UserID:    7,
		Title:     title,
		When:      &when,
		Owner:     contact,
		Reminders: reminders,
	}
}

func TestRunCycle_EmailTaskScenario(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(5*time.Minute), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "File report", testNow.Add(2*time.Hour), owner(), reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	audit := &fakeAudit{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, audit)

	engine.RunCycle(context.Background())

	require.Len(t, dispatcher.sent, 1)
	msg := dispatcher.sent[0]
	assert.Equal(t, models.MethodEmail, msg.method)
	assert.Equal(t, "sam@example.com", msg.to.Email)
	assert.Contains(t, msg.body, `"File report"`)
	assert.Contains(t, msg.body, "due on")

	assert.True(t, reminder.IsSent)
	assert.Equal(t, []int64{1}, store.marked)

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.StatusSent, audit.records[0].Status)
	assert.Equal(t, int64(1), audit.records[0].ReminderID)
}

func TestRunCycle_WindowBoundariesInclusive(t *testing.T) {
	atStart := reminderAt(1, testNow, models.MethodEmail)
	atEnd := reminderAt(2, testNow.Add(testBuffer), models.MethodEmail)
	justPast := reminderAt(3, testNow.Add(testBuffer+time.Second), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "Boundaries", testNow.Add(time.Hour), owner(), atStart, atEnd, justPast)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.Equal(t, 2, dispatcher.sentCount())
	assert.ElementsMatch(t, []int64{1, 2}, store.marked)
	assert.False(t, justPast.IsSent)
}

func TestRunCycle_PastReminderNeverSelected(t *testing.T) {
	// A reminder whose time slipped past now (a missed tick) is outside
	// [now, now+buffer] and is silently never retried.
	missed := reminderAt(1, testNow.Add(-time.Second), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "Missed", testNow.Add(time.Hour), owner(), missed)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.Zero(t, dispatcher.sentCount())
	assert.Empty(t, store.marked)
	assert.False(t, missed.IsSent)
}

func TestRunCycle_Idempotent(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "Once", testNow.Add(time.Hour), owner(), reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())
	engine.RunCycle(context.Background())

	assert.Equal(t, 1, dispatcher.sentCount(), "second cycle must not re-dispatch a sent reminder")
	assert.Equal(t, []int64{1}, store.marked)
}

func TestRunCycle_RetryAfterDispatchFailure(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "Flaky", testNow.Add(time.Hour), owner(), reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{failNext: 1}
	audit := &fakeAudit{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, audit)

	engine.RunCycle(context.Background())
	assert.False(t, reminder.IsSent, "failed dispatch must leave the reminder unsent")
	assert.Empty(t, store.marked)
	require.Len(t, audit.records, 1)
	assert.Equal(t, models.StatusFailed, audit.records[0].Status)

	engine.RunCycle(context.Background())
	assert.True(t, reminder.IsSent)
	assert.Equal(t, []int64{1}, store.marked)
	assert.Equal(t, 1, dispatcher.sentCount())
}

func TestRunCycle_TwoRemindersSameEntity(t *testing.T) {
	first := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	second := reminderAt(2, testNow.Add(2*time.Minute), models.MethodSMS)
	task := dueEntity(models.KindTask, 10, "Busy day", testNow.Add(time.Hour), owner(), first, second)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.True(t, first.IsSent)
	assert.True(t, second.IsSent)
	assert.ElementsMatch(t, []int64{1, 2}, store.marked, "no lost update between sibling reminders")
}

func TestRunCycle_CrossKindCoverage(t *testing.T) {
	taskReminder := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	eventReminder := reminderAt(2, testNow.Add(time.Minute), models.MethodEmail)
	goalReminder := reminderAt(3, testNow.Add(time.Minute), models.MethodEmail)

	sources := []EntitySource{
		&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{
			dueEntity(models.KindTask, 10, "File report", testNow.Add(time.Hour), owner(), taskReminder)}},
		&fakeSource{kind: models.KindEvent, entities: []*models.DueEntity{
			dueEntity(models.KindEvent, 20, "Standup", testNow.Add(time.Hour), owner(), eventReminder)}},
		&fakeSource{kind: models.KindGoal, entities: []*models.DueEntity{
			dueEntity(models.KindGoal, 30, "Run 5k", testNow.Add(time.Hour), owner(), goalReminder)}},
	}

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine(sources, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	require.Len(t, dispatcher.sent, 3)
	assert.Contains(t, dispatcher.sent[0].body, "due on")
	assert.Contains(t, dispatcher.sent[1].body, "starting at")
	assert.Contains(t, dispatcher.sent[2].body, "targeting")
	assert.ElementsMatch(t, []int64{1, 2, 3}, store.marked)
}

func TestRunCycle_MissingEmailSkipsAndRetires(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "No address", testNow.Add(time.Hour),
		&models.Contact{Phone: "+15550100"}, reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	audit := &fakeAudit{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, audit)

	engine.RunCycle(context.Background())

	assert.Zero(t, dispatcher.sentCount(), "nothing to dispatch without an address")
	assert.True(t, reminder.IsSent, "unsendable reminders retire instead of retrying forever")
	require.Len(t, audit.records, 1)
	assert.Equal(t, models.StatusSkipped, audit.records[0].Status)
	assert.Contains(t, audit.records[0].Detail, "no email address")
}

func TestRunCycle_MissingPhoneSkipsAndRetires(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(time.Minute), models.MethodSMS)
	task := dueEntity(models.KindTask, 10, "No phone", testNow.Add(time.Hour),
		&models.Contact{Email: "sam@example.com"}, reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	audit := &fakeAudit{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, audit)

	engine.RunCycle(context.Background())

	assert.Zero(t, dispatcher.sentCount())
	assert.True(t, reminder.IsSent)
	require.Len(t, audit.records, 1)
	assert.Equal(t, models.StatusSkipped, audit.records[0].Status)
}

func TestRunCycle_AppChannelFireAndForget(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(time.Minute), models.MethodApp)
	task := dueEntity(models.KindTask, 10, "Ping", testNow.Add(time.Hour), owner(), reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{errFor: map[models.Method]error{models.MethodApp: errors.New("bot down")}}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.True(t, reminder.IsSent, "app channel marks sent after the attempt, success or not")
	assert.Equal(t, []int64{1}, store.marked)
}

func TestRunCycle_UnresolvedOwnerSkipsEntity(t *testing.T) {
	orphanReminder := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	orphan := dueEntity(models.KindTask, 10, "Orphan", testNow.Add(time.Hour), nil, orphanReminder)
	okReminder := reminderAt(2, testNow.Add(time.Minute), models.MethodEmail)
	ok := dueEntity(models.KindTask, 11, "Owned", testNow.Add(time.Hour), owner(), okReminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{orphan, ok}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.False(t, orphanReminder.IsSent)
	assert.True(t, okReminder.IsSent)
	assert.Equal(t, 1, dispatcher.sentCount())
}

func TestRunCycle_KindQueryFailureIsolated(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	goal := dueEntity(models.KindGoal, 30, "Still works", testNow.Add(time.Hour), owner(), reminder)

	sources := []EntitySource{
		&fakeSource{kind: models.KindTask, err: errors.New("connection reset")},
		&fakeSource{kind: models.KindGoal, entities: []*models.DueEntity{goal}},
	}
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine(sources, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.True(t, reminder.IsSent, "a failing kind must not abort the remaining kinds")
	assert.Equal(t, 1, dispatcher.sentCount())
}

func TestRunCycle_MarkSentFailureDoesNotAbortCycle(t *testing.T) {
	first := reminderAt(1, testNow.Add(time.Minute), models.MethodEmail)
	second := reminderAt(2, testNow.Add(2*time.Minute), models.MethodEmail)
	task := dueEntity(models.KindTask, 10, "Write trouble", testNow.Add(time.Hour), owner(), first, second)

	store := &fakeStore{markErr: errors.New("write timeout")}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.Equal(t, 2, dispatcher.sentCount(), "a store write failure is contained to its reminder")
	assert.False(t, first.IsSent)
	assert.False(t, second.IsSent)
}

func TestRunCycle_RecurringReminderRescheduled(t *testing.T) {
	remindAt := testNow.Add(5 * time.Minute)
	reminder := reminderAt(1, remindAt, models.MethodEmail)
	reminder.RecurrenceRule = "FREQ=DAILY"
	task := dueEntity(models.KindTask, 10, "Daily review", testNow.Add(time.Hour), owner(), reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.Equal(t, 1, dispatcher.sentCount())
	assert.False(t, reminder.IsSent, "recurring reminders advance instead of retiring")
	assert.Empty(t, store.marked)
	require.Contains(t, store.rescheduled, int64(1))
	assert.True(t, store.rescheduled[1].Equal(remindAt.Add(24*time.Hour)),
		"expected next occurrence one day later, got %s", store.rescheduled[1])
}

func TestRunCycle_RecurringRuleExhaustedRetires(t *testing.T) {
	reminder := reminderAt(1, testNow.Add(5*time.Minute), models.MethodEmail)
	reminder.RecurrenceRule = "FREQ=DAILY;COUNT=1"
	task := dueEntity(models.KindTask, 10, "Last one", testNow.Add(time.Hour), owner(), reminder)

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	engine := newTestEngine([]EntitySource{&fakeSource{kind: models.KindTask, entities: []*models.DueEntity{task}}}, store, dispatcher, nil)

	engine.RunCycle(context.Background())

	assert.True(t, reminder.IsSent)
	assert.Equal(t, []int64{1}, store.marked)
	assert.Empty(t, store.rescheduled)
}
