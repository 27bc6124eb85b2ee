package lmi

import (
	"strings"
	"testing"

	"github.com/brickyard-pm/brickyard/internal/buildplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenParseRoundTrips(t *testing.T) {
	entries := []Entry{
		{Name: "widgets", Namespace: "widgets", Archive: "/out/libwidgets.a", Include: []string{"/src/include", "/src/src"}},
		{Name: "gadgets", Namespace: "acme", Archive: "/out/libgadgets.a", Include: []string{"/g/include"}},
	}

	var buf strings.Builder
	require.NoError(t, Write(&buf, entries))

	got, err := Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestWriteSeparatesBlocksWithBlankLine(t *testing.T) {
	entries := []Entry{
		{Name: "a", Namespace: "a", Archive: "/a.a"},
		{Name: "b", Namespace: "b", Archive: "/b.a"},
	}
	var buf strings.Builder
	require.NoError(t, Write(&buf, entries))
	assert.Contains(t, buf.String(), "\n\nname: b")
}

func TestFromPlanExtractsArchiveNodes(t *testing.T) {
	plan := &buildplan.Plan{
		Archives: []buildplan.ArchiveNode{
			{
				OwnerId: buildplan.LibraryOwner{Name: "widgets", Namespace: "widgets"},
				Output:  "/out/libwidgets.a",
				Usage:   buildplan.LibraryUsage{IncludePaths: []string{"/inc"}, Archive: "/out/libwidgets.a"},
			},
		},
	}
	entries := FromPlan(plan)
	require.Len(t, entries, 1)
	assert.Equal(t, "widgets", entries[0].Name)
	assert.Equal(t, []string{"/inc"}, entries[0].Include)
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	got, err := Parse(strings.NewReader("name: a\nfuture-field: xyz\narchive: /a.a\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}
