package httpbind_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/httpbind"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestBind_DispatchesChangeThenBlur(t *testing.T) {
	var actions []string
	form := testsupport.MustForm(t, testsupport.SignupDefinition(), formstate.WithListener(func(action formstate.Action, _ formstate.FieldsState) {
		actions = append(actions, string(action.Kind()))
	}))

	err := httpbind.Bind(context.Background(), form, postForm(url.Values{"email": {"a@b.co"}, "age": {"42"}}))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if diff := cmp.Diff([]string{"change", "blur", "change", "blur"}, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"email": "a@b.co", "age": int64(42)}, form.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	email, _ := form.Field("email")
	if !email.Valid || !email.Dirty || !email.Touched {
		t.Fatalf("unexpected email state: %+v", email)
	}
}

func TestBind_SanitisesMarkup(t *testing.T) {
	def := formstate.Definition{Fields: map[string]formstate.FieldDefinition{
		"name":     formstate.Field(""),
		"password": formstate.Field(""),
	}}
	form := testsupport.MustForm(t, def)

	err := httpbind.Bind(context.Background(), form, postForm(url.Values{
		"name":     {`<b>Ada</b> & <script>alert(1)</script>Co`},
		"password": {"<p>&secret"},
	}), httpbind.WithRawFields("password"))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got := form.Data()["name"]; got != "Ada & Co" {
		t.Fatalf("expected sanitised name, got %q", got)
	}
	if got := form.Data()["password"]; got != "<p>&secret" {
		t.Fatalf("expected raw password, got %q", got)
	}
}

func TestBind_SanitisesEntityEncodedMarkup(t *testing.T) {
	def := formstate.Definition{Fields: map[string]formstate.FieldDefinition{
		"name": formstate.Field(""),
		"bio":  formstate.Field(""),
	}}
	form := testsupport.MustForm(t, def)

	err := httpbind.Bind(context.Background(), form, postForm(url.Values{
		"name": {"&lt;img src=x onerror=alert(1)&gt;"},
		"bio":  {"&amp;lt;b&amp;gt;Ada&amp;lt;/b&amp;gt;"},
	}))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	want := map[string]any{"name": "", "bio": "Ada"}
	if diff := cmp.Diff(want, form.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain text", raw: "Ada Lovelace", want: "Ada Lovelace"},
		{name: "ampersand", raw: "Ada &amp; Co", want: "Ada & Co"},
		{name: "markup", raw: "<b>Ada</b>", want: "Ada"},
		{name: "entity encoded script", raw: "&lt;script&gt;alert(1)&lt;/script&gt;", want: ""},
		{name: "entity encoded handler", raw: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "double encoded", raw: "&amp;lt;b&amp;gt;Ada&amp;lt;/b&amp;gt;", want: "Ada"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := httpbind.Sanitize(nil, tc.raw)
			if got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
			if strings.ContainsAny(got, "<>") {
				t.Fatalf("Sanitize(%q) left markup: %q", tc.raw, got)
			}
		})
	}
}

func TestBind_UnknownKeys(t *testing.T) {
	values := url.Values{"email": {"a@b.co"}, "_csrf": {"tok"}, "admin": {"true"}}

	t.Run("ignored by default", func(t *testing.T) {
		form := testsupport.MustForm(t, testsupport.SignupDefinition())
		if err := httpbind.Bind(context.Background(), form, postForm(values)); err != nil {
			t.Fatalf("bind: %v", err)
		}
		if !form.State().Valid {
			t.Fatalf("expected valid form")
		}
	})

	t.Run("strict rejects before dispatch", func(t *testing.T) {
		form := testsupport.MustForm(t, testsupport.SignupDefinition())
		err := httpbind.Bind(context.Background(), form, postForm(values), httpbind.WithStrict(), httpbind.WithIgnore("_csrf"))

		var unknown *formstate.UnknownFieldError
		if !errors.As(err, &unknown) || unknown.Field != "admin" {
			t.Fatalf("expected UnknownFieldError for admin, got %v", err)
		}
		if !errors.Is(err, formstate.ErrUnknownField) {
			t.Fatalf("expected ErrUnknownField in chain")
		}
		if !form.State().Pristine {
			t.Fatalf("strict rejection must leave the form untouched")
		}
	})
}

func TestBind_UnparsableValues(t *testing.T) {
	form := testsupport.MustForm(t, testsupport.SignupDefinition())
	err := httpbind.Bind(context.Background(), form, postForm(url.Values{"email": {"a@b.co"}, "age": {"old"}}))

	var valueErrs httpbind.ValueErrors
	if !errors.As(err, &valueErrs) {
		t.Fatalf("expected ValueErrors, got %v", err)
	}
	if _, ok := valueErrs["age"]; !ok || len(valueErrs) != 1 {
		t.Fatalf("expected only age to fail, got %v", valueErrs)
	}
	if age, _ := form.Field("age"); !age.Pristine || age.Value != int64(0) {
		t.Fatalf("unparsable field must not be dispatched: %+v", age)
	}
	if email, _ := form.Field("email"); !email.Dirty {
		t.Fatalf("other fields still bind: %+v", email)
	}
}

func TestBind_Multipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("email", "m@p.io")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/signup", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	form := testsupport.MustForm(t, testsupport.SignupDefinition())
	if err := httpbind.Bind(context.Background(), form, req); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got := form.Data()["email"]; got != "m@p.io" {
		t.Fatalf("expected multipart value, got %v", got)
	}
}

func TestBind_QueryOnGet(t *testing.T) {
	form := testsupport.MustForm(t, testsupport.SignupDefinition())
	req := httptest.NewRequest(http.MethodGet, "/signup?email=q@x.io&age=7", nil)
	if err := httpbind.Bind(context.Background(), form, req); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"email": "q@x.io", "age": int64(7)}, form.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	form := testsupport.MustForm(t, testsupport.SignupDefinition())
	if err := httpbind.Bind(ctx, form, postForm(url.Values{"email": {"a@b.co"}})); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
