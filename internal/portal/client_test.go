package portal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/models"
)

type fakePortal struct {
	mu        sync.Mutex
	forms     []map[string]string
	loginMode string // "cookie", "text", "reject", "weird"
	dayStatus int
	expired   bool
	failHour  string
}

func (f *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/student/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("id") == "" || r.PostForm.Get("submit") != "Войти" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		switch f.loginMode {
		case "cookie":
			http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "abc", Path: "/"})
			w.Write([]byte("ok"))
		case "text":
			w.Write([]byte(`<a href="/logout">Выход</a>`))
		case "reject":
			w.Write([]byte("регистрация | вход"))
		default:
			w.Write([]byte("maintenance"))
		}
	})
	mux.HandleFunc("/student/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.recordSubmit(w, r)
			return
		}
		if r.URL.Query().Get("mode") == "" {
			w.Write([]byte("home"))
			return
		}
		if f.dayStatus != 0 {
			w.WriteHeader(f.dayStatus)
			return
		}
		if f.expired {
			w.Write([]byte("регистрация / вход"))
			return
		}
		w.Write([]byte(dayPage))
	})
	return mux
}

func (f *fakePortal) recordSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	form["Referer"] = r.Header.Get("Referer")
	form["X-Requested-With"] = r.Header.Get("X-Requested-With")
	form["User-Agent"] = r.Header.Get("User-Agent")

	f.mu.Lock()
	f.forms = append(f.forms, form)
	f.mu.Unlock()

	if form["hour"] == f.failHour {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte("{}"))
}

func newTestClient(t *testing.T, f *fakePortal) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"ftp://x", "://bad", "system.example"} {
		if _, err := New(u, time.Second); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr error
		session bool
	}{
		{"cookie", nil, true},
		{"text", nil, false},
		{"reject", ErrLoginRejected, false},
		{"weird", ErrUnexpectedResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c := newTestClient(t, &fakePortal{loginMode: tt.mode})

			err := c.Login(context.Background(), Credentials{LoginID: "007", Password: "pw"})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if c.HasSession() != tt.session {
				t.Errorf("HasSession() = %v, want %v", c.HasSession(), tt.session)
			}
		})
	}
}

func TestFetchDay(t *testing.T) {
	c := newTestClient(t, &fakePortal{loginMode: "cookie"})

	day, err := c.FetchDay(context.Background(), 11, 6)
	if err != nil {
		t.Fatalf("FetchDay() error = %v", err)
	}
	if !strings.HasSuffix(day.URL, "/student/?mode=ucheba&act=group&act2=prog&m=11&d=6") {
		t.Errorf("day URL = %q", day.URL)
	}
	if len(day.Students) != 3 {
		t.Errorf("got %d students, want 3", len(day.Students))
	}
}

func TestFetchDayErrors(t *testing.T) {
	t.Run("expired session", func(t *testing.T) {
		c := newTestClient(t, &fakePortal{expired: true})
		if _, err := c.FetchDay(context.Background(), 1, 1); !errors.Is(err, ErrSessionExpired) {
			t.Errorf("FetchDay() error = %v, want %v", err, ErrSessionExpired)
		}
	})
	t.Run("http error", func(t *testing.T) {
		c := newTestClient(t, &fakePortal{dayStatus: http.StatusBadGateway})
		if _, err := c.FetchDay(context.Background(), 1, 1); !errors.Is(err, ErrUnexpectedResponse) {
			t.Errorf("FetchDay() error = %v, want %v", err, ErrUnexpectedResponse)
		}
	})
}

func TestDaySubmitter(t *testing.T) {
	f := &fakePortal{loginMode: "cookie", failHour: "2"}
	c := newTestClient(t, f)

	day, err := c.FetchDay(context.Background(), 11, 6)
	if err != nil {
		t.Fatalf("FetchDay() error = %v", err)
	}
	sub := c.Submitter(day)

	okRec := models.HourRecord{UserID: "501", PairID: "9001", Hour: "1"}
	badRec := models.HourRecord{UserID: "501", PairID: "9001", Hour: "2"}

	if !sub.Submit(context.Background(), okRec, constants.ReasonMedical) {
		t.Error("Submit() = false for an accepted hour")
	}
	if sub.Submit(context.Background(), badRec, constants.ReasonMedical) {
		t.Error("Submit() = true for a rejected hour")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.forms) != 2 {
		t.Fatalf("portal received %d submissions, want 2", len(f.forms))
	}
	form := f.forms[0]
	want := map[string]string{
		"userid":           "501",
		"zid":              "9001",
		"hour":             "1",
		"nb":               "on",
		"type":             "1",
		"reason":           "",
		"Referer":          day.URL,
		"X-Requested-With": "XMLHttpRequest",
		"User-Agent":       constants.UserAgent,
	}
	for k, v := range want {
		if form[k] != v {
			t.Errorf("form[%q] = %q, want %q", k, form[k], v)
		}
	}
}

func TestSubmitTransportErrorIsFalse(t *testing.T) {
	c, err := New("http://127.0.0.1:1", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sub := c.Submitter(&Day{URL: c.DayURL(1, 1)})

	if sub.Submit(context.Background(), models.HourRecord{UserID: "1", PairID: "1", Hour: "1"}, constants.ReasonNone) {
		t.Error("Submit() = true against an unreachable portal")
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, &fakePortal{})
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("я", constants.MaxBodyExcerpt+10)
	if got := []rune(excerpt(long)); len(got) != constants.MaxBodyExcerpt {
		t.Errorf("excerpt length = %d, want %d", len(got), constants.MaxBodyExcerpt)
	}
	if got := excerpt("a\nb"); got != "a b" {
		t.Errorf("excerpt() = %q, want %q", got, "a b")
	}
}
