package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rlportal/research-log/internal/auth"
	"github.com/rlportal/research-log/internal/model"
	"github.com/rlportal/research-log/internal/repository"
	"github.com/rlportal/research-log/internal/storage"
)

// In-memory stand-ins for the repository and storage interfaces so handler
// tests run without postgres or an object store.

var (
	_ repository.ProfileRepository  = (*fakeProfiles)(nil)
	_ repository.ResearchRepository = (*fakeResearch)(nil)
	_ repository.LogRepository      = (*fakeLogs)(nil)
	_ storage.BlobStore             = (*fakeBlobs)(nil)
)

type fakeProfiles struct {
	profiles []model.Profile
	err      error
}

func (f *fakeProfiles) All(ctx context.Context) ([]model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Profile, len(f.profiles))
	copy(out, f.profiles)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (model.Profile, error) {
	if f.err != nil {
		return model.Profile{}, f.err
	}
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Profile{}, repository.ErrNotFound
}

func (f *fakeProfiles) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	if f.err != nil {
		return model.Profile{}, f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range f.profiles {
		if strings.ToLower(p.Email) == email {
			return p, nil
		}
	}
	return model.Profile{}, repository.ErrNotFound
}

type fakeResearch struct {
	records   []model.ResearchRecord
	nextID    int64
	createErr error
	listErr   error

	// windows captures the [from, to) arguments of every
	// ListByUserBetween call, in call order.
	windows [][2]time.Time
}

func (f *fakeResearch) Create(ctx context.Context, userID, description string, fileURL *string) (model.ResearchRecord, error) {
	if f.createErr != nil {
		return model.ResearchRecord{}, f.createErr
	}
	f.nextID++
	rec := model.ResearchRecord{
		ID:          f.nextID,
		UserID:      userID,
		Description: description,
		FileURL:     fileURL,
		CreatedAt:   time.Now(),
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeResearch) ListByUser(ctx context.Context, userID string) ([]model.ResearchRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.ResearchRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeResearch) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]model.ResearchRecord, error) {
	f.windows = append(f.windows, [2]time.Time{from, to})
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.ResearchRecord
	for _, r := range f.records {
		if r.UserID == userID && !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(recs []model.ResearchRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
}

type fakeLogs struct {
	entries   []model.LogEntry
	nextID    int64
	createErr error
	listErr   error
}

func (f *fakeLogs) Create(ctx context.Context, userID, description string) (model.LogEntry, error) {
	if f.createErr != nil {
		return model.LogEntry{}, f.createErr
	}
	f.nextID++
	e := model.LogEntry{ID: f.nextID, UserID: userID, Description: description, CreatedAt: time.Now()}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLogs) Recent(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.LogEntry, len(f.entries))
	copy(out, f.entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeBlobs struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putKeys      []string
	putErr       error
	urlErr       error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeBlobs) Put(ctx context.Context, key, contentType string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putKeys = append(f.putKeys, key)
	f.objects[key] = data
	f.contentTypes[key] = contentType
	return nil
}

func (f *fakeBlobs) PublicURL(ctx context.Context, key string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://cdn.example.com/research/" + key, nil
}

// newTestContext builds an echo context around the given request and returns
// it together with its response recorder.
func newTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// newJSONContext is newTestContext for a JSON body.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return newTestContext(req)
}

// asPrincipal attaches an authenticated principal the way the auth middleware
// would.
func asPrincipal(c echo.Context, id string) auth.Principal {
	p := auth.Principal{ID: id, Email: id + "@example.com", Name: "user " + id}
	c.Set("principal", p)
	return p
}

// capturePublisher returns an activityPublisher that records published
// entries in the given slice.
func capturePublisher(published *[]model.LogEntry) activityPublisher {
	return func(ctx context.Context, e model.LogEntry) {
		*published = append(*published, e)
	}
}
