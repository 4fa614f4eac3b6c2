package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	chatID int64
	text   string
	err    error
}

func (f *fakeClient) SendText(chatID int64, text string) error {
	f.chatID, f.text = chatID, text
	return f.err
}

func TestAdminAlerterSendsToAdmin(t *testing.T) {
	c := &fakeClient{}
	require.NoError(t, NewAdminAlerter(c, 77).Alert("backup failed"))
	assert.Equal(t, int64(77), c.chatID)
	assert.Equal(t, "[alert] backup failed", c.text)
}

func TestAdminAlerterWrapsError(t *testing.T) {
	sendErr := errors.New("blocked by user")
	err := NewAdminAlerter(&fakeClient{err: sendErr}, 77).Alert("x")
	assert.ErrorIs(t, err, sendErr)
}
