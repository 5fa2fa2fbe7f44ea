package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Title    string `json:"title" validate:"required,max=10"`
	Email    string `json:"email" validate:"omitempty,email"`
	Image    string `json:"image" validate:"omitempty,imageurl"`
	Link     string `json:"link" validate:"omitempty,linkurl"`
	Category string `json:"category" validate:"omitempty,oneof=upcoming past"`
}

func TestValidInput(t *testing.T) {
	v := New()

	err := v.Struct(sampleInput{
		Title: "Hackathon",
		Email: "club@example.com",
		Image: "https://cdn.example.com/poster.png",
		Link:  "http://example.com/register",
	})

	require.NoError(t, err)
}

func TestImageURLRule(t *testing.T) {
	v := New()

	valid := []string{
		"",
		"https://cdn.example.com/a.png",
		"http://cdn.example.com/a.jpg",
		"data:image/png;base64,iVBORw0KGgo=",
	}
	for _, u := range valid {
		require.NoError(t, v.Struct(sampleInput{Title: "t", Image: u}), "image %q", u)
	}

	invalid := []string{
		"ftp://cdn.example.com/a.png",
		"javascript:alert(1)",
		"data:text/html,<script>",
		"not a url",
	}
	for _, u := range invalid {
		require.Error(t, v.Struct(sampleInput{Title: "t", Image: u}), "image %q", u)
	}
}

func TestLinkURLRule(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sampleInput{Title: "t", Link: "https://example.com/x"}))
	require.Error(t, v.Struct(sampleInput{Title: "t", Link: "data:image/png;base64,x"}))
	require.Error(t, v.Struct(sampleInput{Title: "t", Link: "example.com"}))
}

func TestFormatErrorsNamesJSONFields(t *testing.T) {
	v := New()

	err := v.Struct(sampleInput{
		Title:    "this title is far too long",
		Email:    "not-an-email",
		Category: "someday",
	})
	require.Error(t, err)

	details := FormatErrors(err)
	require.Contains(t, details, `"title" must be at most 10 characters`)
	require.Contains(t, details, `"email" must be a valid email address`)
	require.Contains(t, details, `"category" must be one of: upcoming, past`)
}

func TestFormatErrorsRequired(t *testing.T) {
	v := New()

	details := FormatErrors(v.Struct(sampleInput{}))
	require.Equal(t, []string{`"title" is required`}, details)
}

func TestFormatErrorsNonValidatorError(t *testing.T) {
	details := FormatErrors(errInvalid)
	require.Equal(t, []string{"invalid request body"}, details)
}

var errInvalid = errSentinel("boom")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
