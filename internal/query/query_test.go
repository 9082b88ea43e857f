package query_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/catalog-service/internal/query"
)

type item struct {
	ID     int64
	Name   string
	Price  float64
	Active bool
	Seen   *time.Time
}

var itemFields = query.NewFieldSet("Id",
	query.Int("Id", "id", func(i item) int64 { return i.ID }),
	query.String("Name", "name", func(i item) string { return i.Name }),
	query.Float("Price", "price", func(i item) float64 { return i.Price }),
	query.Bool("Active", "active", func(i item) bool { return i.Active }),
	query.Time("Seen", "seen", func(i item) *time.Time { return i.Seen }),
)

func sample() []item {
	seen := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []item{
		{ID: 1, Name: "Blue Widget", Price: 10, Active: true, Seen: &seen},
		{ID: 2, Name: "Red Gadget", Price: 25.5, Active: false},
		{ID: 3, Name: "widget pro", Price: 10, Active: true},
		{ID: 4, Name: "Gizmo", Price: 99, Active: true},
	}
}

func ids(items []item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func filterIDs(t *testing.T, c query.Criteria) []int64 {
	t.Helper()
	p, err := query.Build(itemFields, c)
	require.NoError(t, err)
	return ids(query.Apply(sample(), p))
}

func TestBuild_EmptyCriteriaAcceptsEverything(t *testing.T) {
	for _, c := range []query.Criteria{nil, {}, {{}, {}}} {
		assert.Equal(t, []int64{1, 2, 3, 4}, filterIDs(t, c))
	}
}

func TestBuild_EqualMatchesFieldValue(t *testing.T) {
	for _, r := range sample() {
		p, err := query.Build(itemFields, query.Criteria{query.Where(query.Filter{Field: "Price", Value: r.Price, Comparator: query.Equal})})
		require.NoError(t, err)
		for _, other := range sample() {
			assert.Equal(t, other.Price == r.Price, p(other), "record %d vs price %v", other.ID, r.Price)
		}
	}
}

func TestBuild_StringComparisonsIgnoreCase(t *testing.T) {
	cases := []struct {
		name string
		cmp  query.Comparator
		val  string
		want []int64
	}{
		{"equal", query.Equal, "GIZMO", []int64{4}},
		{"not equal", query.NotEqual, "gizmo", []int64{1, 2, 3}},
		{"contains", query.Contains, "WIDGET", []int64{1, 3}},
		{"starts with", query.StartsWith, "red", []int64{2}},
		{"ends with", query.EndsWith, "PRO", []int64{3}},
		{"less than", query.LessThan, "c", []int64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "name", Value: tc.val, Comparator: tc.cmp})})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuild_NumericStringsAreCoerced(t *testing.T) {
	got := filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "Price", Value: " 25.5 ", Comparator: query.Equal})})
	assert.Equal(t, []int64{2}, got)

	got = filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "Id", Value: "2", Comparator: query.GreaterThanOrEqual})})
	assert.Equal(t, []int64{2, 3, 4}, got)
}

func TestBuild_GroupsAreOrInsideAndAcross(t *testing.T) {
	search := query.SearchGroup("widget", []string{"Name"}, []string{"Price"})
	active := query.Where(query.Filter{Field: "Active", Value: "true", Comparator: query.Equal})
	cheap := query.Where(query.Filter{Field: "Price", Value: 20, Comparator: query.LessThan})

	assert.Equal(t, []int64{1, 3}, filterIDs(t, query.Criteria{search}))
	assert.Equal(t, []int64{1, 3, 4}, filterIDs(t, query.Criteria{active}))
	assert.Equal(t, []int64{1, 3}, filterIDs(t, query.Criteria{}.And(search, active, cheap)))
}

func TestCriteria_AndLeavesBaseReusable(t *testing.T) {
	active := query.Where(query.Filter{Field: "Active", Value: true, Comparator: query.Equal})
	cheap := query.Where(query.Filter{Field: "Price", Value: 20, Comparator: query.LessThan})
	pricey := query.Where(query.Filter{Field: "Price", Value: 20, Comparator: query.GreaterThan})

	base := make(query.Criteria, 0, 4).And(active)
	a := base.And(cheap)
	b := base.And(pricey)

	require.Len(t, base, 1)
	require.Len(t, a, 2)
	require.Len(t, b, 2)
	assert.Equal(t, cheap, a[1])
	assert.Equal(t, pricey, b[1])
	assert.Equal(t, []int64{1, 3}, filterIDs(t, a))
	assert.Equal(t, []int64{4}, filterIDs(t, b))
}

func TestOr_CopiesFilters(t *testing.T) {
	filters := []query.Filter{{Field: "Name", Value: "gizmo", Comparator: query.Equal}}
	g := query.Or(filters...)
	filters[0].Value = "widget"
	assert.Equal(t, "gizmo", g[0].Value)
}

func TestSearchGroup_NumericTermAddsEquality(t *testing.T) {
	g := query.SearchGroup("99", []string{"Name"}, []string{"Price"})
	require.Len(t, g, 2)
	assert.Equal(t, query.Equal, g[1].Comparator)
	assert.Equal(t, 99.0, g[1].Value)
	assert.Equal(t, []int64{4}, filterIDs(t, query.Criteria{g}))

	assert.Len(t, query.SearchGroup("gizmo", []string{"Name"}, []string{"Price"}), 1)
	assert.Empty(t, query.SearchGroup("   ", []string{"Name"}, []string{"Price"}))
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name string
		f    query.Filter
		want error
	}{
		{"unknown field", query.Filter{Field: "Nonexistent", Value: 1}, query.ErrFieldNotFound},
		{"contains on number", query.Filter{Field: "Price", Value: "1", Comparator: query.Contains}, query.ErrTypeMismatch},
		{"starts with on bool", query.Filter{Field: "Active", Value: "t", Comparator: query.StartsWith}, query.ErrTypeMismatch},
		{"malformed number", query.Filter{Field: "Price", Value: "cheap", Comparator: query.GreaterThan}, query.ErrInvalidArgument},
		{"blank number", query.Filter{Field: "Price", Value: "  ", Comparator: query.Equal}, query.ErrInvalidArgument},
		{"malformed time", query.Filter{Field: "Seen", Value: "yesterday-ish", Comparator: query.Equal}, query.ErrInvalidArgument},
		{"nil with ordering", query.Filter{Field: "Price", Value: nil, Comparator: query.LessThan}, query.ErrInvalidArgument},
		{"unknown comparator", query.Filter{Field: "Price", Value: 1, Comparator: query.Comparator(42)}, query.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := query.Build(itemFields, query.Criteria{query.Where(tc.f)})
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, p)
		})
	}
}

func TestBuild_OrderingOnBoolMatchesNothing(t *testing.T) {
	got := filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "Active", Value: true, Comparator: query.GreaterThan})})
	assert.Empty(t, got)
}

func TestBuild_NullableTime(t *testing.T) {
	assert.Equal(t, []int64{2, 3, 4}, filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "Seen", Comparator: query.Equal})}))
	assert.Equal(t, []int64{1}, filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "Seen", Comparator: query.NotEqual})}))
	assert.Equal(t, []int64{1}, filterIDs(t, query.Criteria{query.Where(query.Filter{Field: "Seen", Value: "2024-02-01", Comparator: query.GreaterThan})}))
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	in := sample()
	p, err := query.Build(itemFields, query.Criteria{query.Where(query.Filter{Field: "Name", Value: "widget", Comparator: query.Contains})})
	require.NoError(t, err)
	_ = query.Apply(in, p)
	_ = query.Apply(in, p)
	assert.Equal(t, sample()[0].Name, in[0].Name)
	assert.Len(t, in, 4)
}

func TestApplySort(t *testing.T) {
	asc, err := query.ApplySort(itemFields, sample(), query.Sort{Field: "price", Direction: query.Ascending})
	require.NoError(t, err)
	// 1 and 3 share a price and keep their input order.
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(asc))

	desc, err := query.ApplySort(itemFields, sample(), query.Sort{Field: "Price", Direction: query.Descending})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 1, 3}, ids(desc))

	byDefault, err := query.ApplySort(itemFields, sample(), query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(byDefault))

	byName, err := query.ApplySort(itemFields, sample(), query.Sort{Field: "Name", Direction: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4, 2, 3}, ids(byName))

	nullsFirst, err := query.ApplySort(itemFields, sample(), query.Sort{Field: "Seen", Direction: query.Ascending})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4, 1}, ids(nullsFirst))
}

func TestApplySort_Errors(t *testing.T) {
	_, err := query.ApplySort(itemFields, sample(), query.Sort{Field: "Nonexistent"})
	assert.ErrorIs(t, err, query.ErrFieldNotFound)

	_, err = query.ApplySort(itemFields, sample(), query.Sort{Field: "Name", Direction: "sideways"})
	assert.ErrorIs(t, err, query.ErrInvalidArgument)
}

func TestApplySort_LeavesInputAlone(t *testing.T) {
	in := sample()
	_, err := query.ApplySort(itemFields, in, query.Sort{Field: "Price", Direction: query.Descending})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(in))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	for _, size := range []int{1, 5, 7, 10, 23, 50} {
		sum := 0
		for n := 1; ; n++ {
			p, err := query.Paginate(items, n, size)
			require.NoError(t, err)
			assert.Equal(t, 23, p.TotalCount)
			assert.LessOrEqual(t, len(p.Items), size)
			if len(p.Items) == 0 {
				break
			}
			sum += len(p.Items)
		}
		assert.Equal(t, 23, sum, "page size %d", size)
	}

	p, err := query.Paginate(items, -3, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Items)
	assert.Equal(t, 5, p.TotalPages)

	p, err = query.Paginate(items, 100, 5)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 23, p.TotalCount)

	p, err = query.Paginate(items, int(^uint(0)>>1), 5)
	require.NoError(t, err)
	assert.Empty(t, p.Items)

	for _, size := range []int{0, -1, query.MaxPageSize + 1} {
		_, err = query.Paginate(items, 1, size)
		assert.ErrorIs(t, err, query.ErrInvalidArgument)
	}
}

func catalog(n int) []item {
	out := make([]item, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Thing %03d", i)
		if i%14 == 0 {
			name = fmt.Sprintf("Widget %03d", i)
		}
		out = append(out, item{ID: int64(i), Name: name, Price: float64(i % 10)})
	}
	return out
}

func TestRun_SecondPageOfSearch(t *testing.T) {
	params := query.ListParams{
		Page:     query.PageRequest{Number: 2, Size: 5},
		Criteria: query.Criteria{query.Where(query.Filter{Field: "Name", Value: "Widget", Comparator: query.Contains})},
	}
	p, err := query.Run(itemFields, catalog(100), params)
	require.NoError(t, err)
	assert.Equal(t, 7, p.TotalCount)
	assert.Len(t, p.Items, 2)
	// default sort is Id descending, so page two holds the two lowest ids.
	assert.Equal(t, []int64{28, 14}, ids(p.Items))
}

func TestRun_NoFilters(t *testing.T) {
	p, err := query.Run(itemFields, catalog(3), query.ListParams{Page: query.PageRequest{Number: 1, Size: 10}})
	require.NoError(t, err)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, 3, p.TotalCount)
	assert.Equal(t, 1, p.TotalPages)
}

func TestRun_FailsFast(t *testing.T) {
	p, err := query.Run(itemFields, catalog(3), query.ListParams{
		Page: query.PageRequest{Number: 1, Size: 10},
		Sort: query.Sort{Field: "Nonexistent"},
	})
	assert.ErrorIs(t, err, query.ErrFieldNotFound)
	assert.Nil(t, p.Items)

	_, err = query.Run(itemFields, catalog(3), query.ListParams{Page: query.PageRequest{Number: 1, Size: 0}})
	assert.ErrorIs(t, err, query.ErrInvalidArgument)
}

func TestRun_Idempotent(t *testing.T) {
	data := catalog(40)
	params := query.ListParams{
		Page:     query.PageRequest{Number: 2, Size: 4},
		Criteria: query.Criteria{query.Where(query.Filter{Field: "Price", Value: 5, Comparator: query.LessThan})},
		Sort:     query.Sort{Field: "Price", Direction: query.Ascending},
	}
	first, err := query.Run(itemFields, data, params)
	require.NoError(t, err)
	second, err := query.Run(itemFields, data, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseFilter(t *testing.T) {
	f, err := query.ParseFilter("price:gte:10.5")
	require.NoError(t, err)
	assert.Equal(t, query.Filter{Field: "price", Comparator: query.GreaterThanOrEqual, Value: "10.5"}, f)

	f, err = query.ParseFilter("Description:contains:a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", f.Value)

	for _, bad := range []string{"price", "price:gte", ":eq:1", "price:approximately:3"} {
		_, err := query.ParseFilter(bad)
		assert.ErrorIs(t, err, query.ErrInvalidArgument, bad)
	}
}

func TestParseComparator(t *testing.T) {
	for in, want := range map[string]query.Comparator{
		"==": query.Equal, "NE": query.NotEqual, "<": query.LessThan, "lte": query.LessThanOrEqual,
		"GreaterThan": query.GreaterThan, ">=": query.GreaterThanOrEqual, "Contains": query.Contains,
		"startsWith": query.StartsWith, "endswith": query.EndsWith,
	} {
		got, err := query.ParseComparator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNewFieldSet_RejectsBadDeclarations(t *testing.T) {
	assert.Panics(t, func() {
		query.NewFieldSet("Id",
			query.Int("Id", "id", func(i item) int64 { return i.ID }),
			query.Int("id", "id", func(i item) int64 { return i.ID }),
		)
	})
	assert.Panics(t, func() {
		query.NewFieldSet("Missing", query.Int("Id", "id", func(i item) int64 { return i.ID }))
	})
	assert.Equal(t, []string{"Id", "Name", "Price", "Active", "Seen"}, itemFields.Names())
}
