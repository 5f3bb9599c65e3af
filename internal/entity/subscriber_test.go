package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscriberNormalizes(t *testing.T) {
	s := NewSubscriber("  Robin@Blocks.COM ", " Jo ", "   ")

	assert.Equal(t, "robin@blocks.com", s.Email)
	assert.Equal(t, "Jo", s.FirstName)
	assert.Empty(t, s.LastName)
}

func TestContactOmitsEmptyNames(t *testing.T) {
	body, err := json.Marshal(NewSubscriber("a@b.com", "", "").Contact())
	require.NoError(t, err)

	assert.JSONEq(t, `{"email":"a@b.com","source":"Robin Blocks Website","subscribed":true}`, string(body))
}

func TestContactKeepsNames(t *testing.T) {
	body, err := json.Marshal(NewSubscriber(" A@B.COM ", " Jo ", "Blocks").Contact())
	require.NoError(t, err)

	assert.JSONEq(t, `{"email":"a@b.com","firstName":"Jo","lastName":"Blocks","source":"Robin Blocks Website","subscribed":true}`, string(body))
}
