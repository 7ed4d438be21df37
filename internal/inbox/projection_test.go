package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilterModes(t *testing.T) {
	s := newSample(t)
	require.Equal(t, []string{"survey", "smoking", "covid"}, ids(Filter(s, FilterAll)))
	require.Equal(t, []string{"survey", "covid"}, ids(Filter(s, FilterUnread)))
	require.Equal(t, []string{"smoking"}, ids(Filter(s, FilterFlagged)))

	s.Remove("smoking")
	require.Empty(t, Filter(s, FilterFlagged), "removed messages never reach a filter")
}

func TestEmptySearchIsIdentity(t *testing.T) {
	s := newSample(t)
	unread := Filter(s, FilterUnread)
	require.Equal(t, unread, Search(unread, ""))
	require.Equal(t, unread, Search(unread, "   \t"))
}

func TestSearchMatchesFieldsCaseInsensitively(t *testing.T) {
	s := newSample(t)
	all := Filter(s, FilterAll)
	require.Equal(t, []string{"smoking"}, ids(Search(all, "range")))
	require.Equal(t, []string{"covid"}, ids(Search(all, "covid-19")))
	require.Equal(t, []string{"smoking"}, ids(Search(all, "NEVER")), "content is searched")
	require.Equal(t, []string{"survey", "smoking"}, ids(Search(all, " surgery ")))
	require.Empty(t, Search(all, "dentist"))
}

func TestViewComposesFilterThenSearch(t *testing.T) {
	s := newSample(t)
	// "surgery" matches two senders but only one of them is unread
	require.Equal(t, []string{"survey"}, ids(View(s, FilterUnread, "surgery")))
	require.Empty(t, View(s, FilterFlagged, "nhs"))

	s.Remove("survey")
	require.Equal(t, []string{"smoking"}, ids(View(s, FilterAll, "surgery")))
	require.Equal(t, []string{"survey"}, ids(RemovedView(s, "surgery")))
}

func TestViewSortsNewestFirst(t *testing.T) {
	s := newSample(t)
	// remove and restore moves the newest message to the end of the bin
	s.Remove("survey")
	s.Restore("survey")
	require.Equal(t, "survey", s.Active()[2].ID)
	require.Equal(t, []string{"survey", "smoking", "covid"}, ids(View(s, FilterAll, "")))

	m, err := s.Deliver(Message{ID: "new", Sender: "Pharmacy", Date: base.Add(time.Hour)})
	require.NoError(t, err)
	require.Equal(t, m.ID, View(s, FilterAll, "")[0].ID)
}

func TestSortByDateDescIsStable(t *testing.T) {
	list := []Message{{ID: "a", Date: base}, {ID: "b", Date: base}, {ID: "c", Date: base.Add(time.Minute)}}
	SortByDateDesc(list)
	require.Equal(t, []string{"c", "a", "b"}, ids(list))
}

func TestFilterModeParsing(t *testing.T) {
	for _, mode := range []FilterMode{FilterAll, FilterUnread, FilterFlagged} {
		got, err := ParseFilterMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, got)
	}
	got, err := ParseFilterMode(" Unread ")
	require.NoError(t, err)
	require.Equal(t, FilterUnread, got)

	_, err = ParseFilterMode("starred")
	require.Error(t, err)

	require.Equal(t, FilterUnread, FilterAll.Next())
	require.Equal(t, FilterAll, FilterFlagged.Next())
}

func TestSuggestSenders(t *testing.T) {
	s := newSample(t)
	all := Filter(s, FilterAll)
	require.Equal(t, []string{"Range Surgery"}, SuggestSenders(all, "rnage", 2))
	require.Equal(t, []string{"Portland Street Surgery", "Range Surgery"}, SuggestSenders(all, "surgey", 1))
	require.Empty(t, SuggestSenders(all, "zzzzzz", 2))
	require.Empty(t, SuggestSenders(all, "", 2))
}
