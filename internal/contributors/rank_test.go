package contributors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanked(t *testing.T) {
	stats := map[Identity]*Stats{}
	add := func(name, email string, commits int) {
		s := newStats(Identity{Name: name, Email: email})
		s.CommitCount = commits
		stats[s.Identity] = s
	}
	add("Zed", "z@x.com", 3)
	add("Amy", "b@x.com", 3)
	add("Amy", "a@x.com", 3)
	add("Max", "m@x.com", 9)

	var got []string
	for _, s := range Ranked(stats) {
		got = append(got, s.Identity.String())
	}
	assert.Equal(t, []string{
		"Max <m@x.com>",
		"Amy <a@x.com>",
		"Amy <b@x.com>",
		"Zed <z@x.com>",
	}, got)

	assert.Empty(t, Ranked(map[Identity]*Stats{}))
}

func TestFind(t *testing.T) {
	stats := map[Identity]*Stats{}
	for _, id := range []Identity{
		{Name: "Ann Lee", Email: "ann@x.com"},
		{Name: "Ann Lee", Email: "ann@work.com"},
		{Name: "Bob", Email: "bob@x.com"},
	} {
		s := newStats(id)
		s.CommitCount = 1
		stats[id] = s
	}

	matches := Find(stats, "ann lee")
	require.Len(t, matches, 2)
	assert.Equal(t, "ann@work.com", matches[0].Email)

	matches = Find(stats, " BOB@X.COM ")
	require.Len(t, matches, 1)
	assert.Equal(t, "Bob", matches[0].Name)

	assert.Empty(t, Find(stats, "ann"))
}
