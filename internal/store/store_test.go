package store

import (
	"testing"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorBucket(t *testing.T) {
	assert.Equal(t, int64(0), FloorBucket(0))
	assert.Equal(t, int64(0), FloorBucket(59))
	assert.Equal(t, int64(60), FloorBucket(60))
	assert.Equal(t, int64(60), FloorBucket(119))
	assert.Equal(t, int64(1700000040), FloorBucket(1700000099))
}

func TestMessageTableFor(t *testing.T) {
	table, err := MessageTableFor("discord")
	require.NoError(t, err)
	assert.Equal(t, MessageCountersDiscord, table)

	table, err = MessageTableFor("minecraft")
	require.NoError(t, err)
	assert.Equal(t, MessageCountersMinecraft, table)

	_, err = MessageTableFor("telegram")
	assert.Error(t, err)
}

func TestCommandTableFor(t *testing.T) {
	table, err := CommandTableFor("minecraft")
	require.NoError(t, err)
	assert.Equal(t, CommandCountersMinecraft, table)

	_, err = CommandTableFor("")
	assert.Error(t, err)
}

func TestWidenSpan(t *testing.T) {
	span := model.Timeframe{Identity: "Steve", FromTimestamp: 100, ToTimestamp: 200}

	// Un intervalle englobant étend les deux bornes
	span = widenSpan(span, 50, 250)
	assert.Equal(t, int64(50), span.FromTimestamp)
	assert.Equal(t, int64(250), span.ToTimestamp)

	// Un intervalle inclus ne change rien: l'union reste le span courant
	span = widenSpan(span, 100, 200)
	assert.Equal(t, int64(50), span.FromTimestamp)
	assert.Equal(t, int64(250), span.ToTimestamp)

	// Un chevauchement partiel n'étend que la borne dépassée
	span = widenSpan(span, 240, 300)
	assert.Equal(t, int64(50), span.FromTimestamp)
	assert.Equal(t, int64(300), span.ToTimestamp)
}

func TestCounterTableValidation(t *testing.T) {
	assert.True(t, MessageCountersDiscord.valid())
	assert.True(t, CommandCountersMinecraft.valid())
	assert.False(t, CounterTable("users; DROP TABLE users").valid())
	assert.False(t, CounterTable("").valid())
}

func TestTimeframeTableValidation(t *testing.T) {
	assert.True(t, AllMembers.valid())
	assert.True(t, OnlineMembers.valid())
	assert.False(t, TimeframeTable("online_members2").valid())
}
