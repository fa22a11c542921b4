package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-dev/parley/internal/apiclient"
	"github.com/parley-dev/parley/shared/domain"
)

const secret = "test-secret"

func TestAdopt(t *testing.T) {
	client := apiclient.New("http://unused")
	svc := New(client, secret)

	token, err := NewToken(secret, domain.User{Id: 7, Name: "alice", IsAdmin: true}, time.Hour)
	require.NoError(t, err)

	ident := svc.Adopt(token)
	require.NotNil(t, ident)
	assert.Equal(t, domain.UserId(7), ident.UserId)
	assert.Equal(t, "alice", ident.Name)
	assert.True(t, ident.IsAdmin)
	assert.Equal(t, token, client.Token())
}

func TestAdopt_RejectsExpiredAndGarbage(t *testing.T) {
	client := apiclient.New("http://unused")
	svc := New(client, secret)

	expired, err := NewToken(secret, domain.User{Id: 7}, -time.Minute)
	require.NoError(t, err)
	assert.Nil(t, svc.Adopt(expired))
	assert.Nil(t, svc.Adopt("not.a.token"))
	assert.Nil(t, svc.Current())
}

func TestAdopt_RejectsWrongKey(t *testing.T) {
	client := apiclient.New("http://unused")
	svc := New(client, secret)

	token, err := NewToken("other-secret", domain.User{Id: 7}, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, svc.Adopt(token))
}
