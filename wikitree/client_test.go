package wikitree

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lineakit/bridgefinder/person"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithAppID("bridgefinder-test"))
}

func TestSearchPersonParams(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		form = r.PostForm
		_, _ = w.Write([]byte(`[{"matches":[{"Id":123,"Name":"Smith-123","FirstName":"John","LastNameAtBirth":"Smith"}]}]`))
	})

	got, err := c.SearchPerson(context.Background(), person.SearchCriteria{
		FirstName: "John",
		LastName:  "Smith",
		BirthYear: 1850,
	})
	if err != nil {
		t.Fatalf("SearchPerson failed: %v", err)
	}

	if form.Get("action") != "searchPerson" {
		t.Errorf("action = %q, want searchPerson", form.Get("action"))
	}
	if form.Get("FirstName") != "John" || form.Get("LastName") != "Smith" {
		t.Errorf("name params = %q/%q", form.Get("FirstName"), form.Get("LastName"))
	}
	if form.Get("BirthDate") != "1850" {
		t.Errorf("BirthDate = %q, want 1850", form.Get("BirthDate"))
	}
	if form.Get("appId") != "bridgefinder-test" {
		t.Errorf("appId = %q, want bridgefinder-test", form.Get("appId"))
	}
	// Zero-valued criteria must not reach the wire.
	if _, present := form["limit"]; present {
		t.Error("limit should be omitted when unset")
	}

	want := []person.Record{{
		ID:              "123",
		Key:             "Smith-123",
		FirstName:       "John",
		LastNameAtBirth: "Smith",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileStringAndNumericIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"profile":{"Id":"456","Name":"Smith-456","FirstName":"Mary","Father":789,"Mother":"0"},"status":0}]`))
	})

	got, err := c.Profile(context.Background(), "Smith-456")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if got.ID != "456" || got.Father != "789" || got.Mother != "0" {
		t.Errorf("flexible IDs not normalized: %+v", got)
	}
}

func TestProfileNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{}]`))
	})

	_, err := c.Profile(context.Background(), "Nobody-1")
	if !errors.Is(err, person.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestStatusErrorSentinels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"status":"Permission denied"}]`))
	})

	_, err := c.Profile(context.Background(), "Private-1")
	if !errors.Is(err, person.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
}

func TestRateLimitedSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.SearchPerson(context.Background(), person.SearchCriteria{LastName: "Smith"})
	if !errors.Is(err, person.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestRelativesShapes(t *testing.T) {
	// Parents arrive as an ID-keyed object, Children as an empty list;
	// both shapes are live on the wire.
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"items":[{"person":{
			"Id":1,
			"Parents":{"10":{"Id":10,"FirstName":"Thomas","LastNameAtBirth":"Smith"},"11":{"Id":11,"FirstName":"Mary"}},
			"Children":[],
			"Spouses":{"20":{"Id":20,"FirstName":"Sarah"}}
		}}]}]`))
	})

	got, err := c.Relatives(context.Background(), "Smith-1")
	if err != nil {
		t.Fatalf("Relatives failed: %v", err)
	}
	if len(got.Parents) != 2 {
		t.Errorf("parents = %d, want 2", len(got.Parents))
	}
	if len(got.Children) != 0 {
		t.Errorf("children = %d, want 0", len(got.Children))
	}
	if len(got.Spouses) != 1 || got.Spouses[0].FirstName != "Sarah" {
		t.Errorf("spouses = %+v", got.Spouses)
	}
}

func TestRelativesMissingItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"items":[]}]`))
	})

	got, err := c.Relatives(context.Background(), "Smith-1")
	if err != nil {
		t.Fatalf("Relatives failed: %v", err)
	}
	if !got.Empty() {
		t.Errorf("relatives = %+v, want empty", got)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		switch {
		case r.PostForm.Get("doLogin") == "1":
			w.Header().Set("Location", "https://example.org/?authcode=abc123")
			w.WriteHeader(http.StatusFound)
		case r.PostForm.Get("authcode") == "abc123":
			_, _ = w.Write([]byte(`{"clientLogin":{"result":"Success","userid":42,"username":"Smith-1"}}`))
		default:
			t.Errorf("unexpected login form: %v", r.PostForm)
		}
	})

	info, err := c.Login(context.Background(), "user@example.org", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if info.UserID != 42 || info.UserName != "Smith-1" {
		t.Errorf("auth info = %+v", info)
	}
	if c.Auth() == nil {
		t.Error("Auth() should be set after login")
	}
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Login(context.Background(), "user@example.org", "wrong")
	if !errors.Is(err, person.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestCrawlTree(t *testing.T) {
	// Root 1 has parents 2 and 3; 2 has parent 4; 3 and 4 are end of line.
	people := map[string]string{
		"1": `"1":{"Id":1,"Name":"Smith-1","FirstName":"John","Father":2,"Mother":3}`,
		"2": `"2":{"Id":2,"Name":"Smith-2","FirstName":"Thomas","Father":4,"Mother":0}`,
		"3": `"3":{"Id":3,"Name":"Jones-3","FirstName":"Mary","Father":0,"Mother":0}`,
		"4": `"4":{"Id":4,"Name":"Smith-4","FirstName":"William","Father":0,"Mother":0}`,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("nuclear") != "1" {
			t.Errorf("nuclear = %q, want 1", r.PostForm.Get("nuclear"))
		}
		body := `[{"people":{`
		first := true
		for _, key := range strings.Split(r.PostForm.Get("keys"), ",") {
			entry, ok := people[key]
			if !ok {
				continue
			}
			if !first {
				body += ","
			}
			body += entry
			first = false
		}
		body += `}}]`
		_, _ = w.Write([]byte(body))
	})

	got, err := c.CrawlTree(context.Background(), "1", 10)
	if err != nil {
		t.Fatalf("CrawlTree failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("crawled %d people, want 4: %+v", len(got), got)
	}

	capped, err := c.CrawlTree(context.Background(), "1", 2)
	if err != nil {
		t.Fatalf("CrawlTree failed: %v", err)
	}
	if len(capped) > 2 {
		t.Errorf("crawled %d people, want at most 2", len(capped))
	}
}

func TestCompactParams(t *testing.T) {
	in := url.Values{}
	in.Set("FirstName", "John")
	in.Set("LastName", "")
	in.Set("BirthDate", "1850")

	out := compactParams(in)
	if _, present := out["LastName"]; present {
		t.Error("empty LastName should be dropped")
	}
	if out.Get("FirstName") != "John" || out.Get("BirthDate") != "1850" {
		t.Errorf("compacted params = %v", out)
	}
}
