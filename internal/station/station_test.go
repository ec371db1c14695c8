package station

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatchesSubstringCaseInsensitive(t *testing.T) {
	d := Default()

	st, ok := d.Find("sfera")
	require.True(t, ok)
	assert.Equal(t, "Sfera FM", st.Name)
	assert.NotEmpty(t, st.URL)

	st, ok = d.Find("KISS")
	require.True(t, ok)
	assert.Equal(t, "Kiss FM 92.9", st.Name)
}

func TestFindReturnsFalseOnNoMatch(t *testing.T) {
	_, ok := Default().Find("zzz")
	assert.False(t, ok)
}

func TestFindFirstMatchWinsByDeclaredOrder(t *testing.T) {
	d := NewDirectory([]Station{
		{Name: "Radio One", URL: "http://one"},
		{Name: "Radio Two", URL: "http://two"},
	})

	st, ok := d.Find("radio")
	require.True(t, ok)
	assert.Equal(t, "Radio One", st.Name)
}

func TestListKeepsDeclaredOrderAndIsACopy(t *testing.T) {
	d := Default()

	list := d.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "Sfera FM", list[0].Name)

	list[0].Name = "mutated"
	again := d.List()
	assert.Equal(t, "Sfera FM", again[0].Name)
}

func TestProbeVisitsEveryStation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	d := NewDirectory([]Station{
		{Name: "A", URL: srv.URL + "/a"},
		{Name: "B", URL: srv.URL + "/b"},
		{Name: "C", URL: srv.URL + "/c"},
	})

	d.Probe(context.Background(), srv.Client(), 2)
	assert.Equal(t, int32(3), hits.Load())
}
