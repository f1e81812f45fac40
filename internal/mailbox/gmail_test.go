package mailbox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

func TestBuildSearch(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "full filter",
			q: Query{
				Recipient: "user@gmail.com",
				Sender:    "noreply@ninjaone.com",
				Subject:   "Activate your NinjaOne Account",
				Unread:    true,
			},
			want: `from:noreply@ninjaone.com to:user@gmail.com subject:"Activate your NinjaOne Account" is:unread`,
		},
		{
			name: "unfiltered",
			q:    Query{},
			want: "",
		},
		{
			name: "sender only",
			q:    Query{Sender: "a@b.c"},
			want: "from:a@b.c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSearch(tt.q))
		})
	}
}

func TestHTMLPartDataPrefersHTML(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "plain"}},
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: "html"}},
		},
	}
	assert.Equal(t, "html", htmlPartData(payload))
}

func TestHTMLPartDataFallsBackToPlain(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "plain"}},
		},
	}
	assert.Equal(t, "plain", htmlPartData(payload))
}

func TestDecodeBase64URL(t *testing.T) {
	raw := `<a href="https://x/activate/1">go</a>`

	unpadded := base64.RawURLEncoding.EncodeToString([]byte(raw))
	got, err := decodeBase64URL(unpadded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	padded := base64.URLEncoding.EncodeToString([]byte(raw))
	got, err = decodeBase64URL(padded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}
