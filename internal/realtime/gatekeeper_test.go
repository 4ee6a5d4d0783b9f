package realtime

import (
	"net/http/httptest"
	"testing"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatekeeper_Admit(t *testing.T) {
	alice := models.Principal{UserID: 7, Email: "alice@example.com"}
	gate := NewGatekeeper(staticAuth{"good": alice})

	tests := []struct {
		name    string
		target  string
		header  string
		want    models.Principal
		wantErr error
	}{
		{name: "query token", target: "/ws?token=good", want: alice},
		{name: "bearer header", target: "/ws", header: "Bearer good", want: alice},
		{name: "lowercase scheme", target: "/ws", header: "bearer good", want: alice},
		{name: "missing", target: "/ws", wantErr: auth.ErrMissingToken},
		{name: "wrong scheme", target: "/ws", header: "Basic good", wantErr: auth.ErrMissingToken},
		{name: "invalid", target: "/ws?token=bad", wantErr: errBadToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := gate.Admit(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPollID_UnmarshalJSON(t *testing.T) {
	for input, want := range map[string]PollID{`42`: 42, `"42"`: 42, `" 7 "`: 7} {
		var id PollID
		require.NoError(t, id.UnmarshalJSON([]byte(input)), input)
		assert.Equal(t, want, id)
	}

	var id PollID
	assert.Error(t, id.UnmarshalJSON([]byte(`"abc"`)))
	assert.Error(t, id.UnmarshalJSON([]byte(`null`)))
}

func TestOutbox_Send(t *testing.T) {
	o := newOutbox(models.Principal{}, 1)

	require.NoError(t, o.Send(Event{Name: "a"}))
	assert.ErrorIs(t, o.Send(Event{Name: "b"}), ErrSlowConsumer)

	o.Close()
	o.Close()
	assert.ErrorIs(t, o.Send(Event{Name: "c"}), ErrClosed)
}
