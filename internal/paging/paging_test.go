package paging

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      uint
	Name    string
	Created time.Time
}

func rowFields(r row) []string { return []string{r.Name} }

func makeRows(n int) []row {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{ID: uint(i + 1), Name: fmt.Sprintf("Skill %02d", i+1), Created: base.Add(time.Duration(i) * time.Hour)}
	}
	return rows
}

func TestParams_Normalize(t *testing.T) {
	assert.Equal(t, Params{PageNumber: 1, PageSize: DefaultPageSize}, Params{}.Normalize())
	assert.Equal(t, Params{PageNumber: 3, PageSize: MaxPageSize}, Params{PageNumber: 3, PageSize: 1000}.Normalize())
	assert.Equal(t, 20, Params{PageNumber: 3, PageSize: 10}.Offset())
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	rows := []row{{ID: 1, Name: "Golang"}, {ID: 2, Name: "Rust"}, {ID: 3, Name: "GOPHER tools"}, {ID: 4, Name: "Python"}}

	got := Filter(rows, "go", rowFields)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)

	assert.Len(t, Filter(rows, "   ", rowFields), 4)
	assert.Empty(t, Filter(rows, "haskell", rowFields))
}

func TestPaginate_CoversEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		for _, size := range []int{1, 3, 10} {
			rows := makeRows(n)
			pages := TotalPages(n, size)
			seen := map[uint]int{}
			for p := 1; p <= pages; p++ {
				page := Paginate(rows, Params{PageNumber: p, PageSize: size})
				assert.Equal(t, n, page.TotalCount)
				assert.Equal(t, pages, page.TotalPages)
				assert.Equal(t, p > 1, page.HasPreviousPage)
				assert.Equal(t, p < pages, page.HasNextPage)
				for _, r := range page.Items {
					seen[r.ID]++
				}
			}
			assert.Len(t, seen, n, "n=%d size=%d", n, size)
			for id, count := range seen {
				assert.Equal(t, 1, count, "id %d duplicated", id)
			}
		}
	}
}

func TestPaginate_PastEnd(t *testing.T) {
	page := Paginate(makeRows(5), Params{PageNumber: 4, PageSize: 2})
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNextPage)
}

func TestPaginate_HugePageNumberDoesNotOverflow(t *testing.T) {
	p := Params{PageNumber: 92233720368547760, PageSize: 100}
	assert.Equal(t, MaxPageNumber, p.Normalize().PageNumber)
	assert.GreaterOrEqual(t, p.Offset(), 0)

	var page Page[row]
	require.NotPanics(t, func() { page = Paginate(makeRows(3), p) })
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, MaxPageNumber, page.PageNumber)
	assert.False(t, page.HasNextPage)
}

func TestApply(t *testing.T) {
	rows := makeRows(25)
	page := Apply(rows, "skill 1", rowFields, Params{PageNumber: 1, PageSize: 4})
	// Skill 10..19
	assert.Equal(t, 10, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "Skill 10", page.Items[0].Name)
}

func TestSortNewestFirst(t *testing.T) {
	same := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{ID: 1, Created: same.Add(-time.Hour)},
		{ID: 2, Created: same},
		{ID: 3, Created: same},
		{ID: 4, Created: same.Add(time.Hour)},
	}
	SortNewestFirst(rows, func(r row) time.Time { return r.Created }, func(r row) uint { return r.ID })

	ids := []uint{}
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint{4, 3, 2, 1}, ids)
}

func TestMap_KeepsEnvelope(t *testing.T) {
	page := Paginate([]int{1, 2, 3, 4, 5}, Params{PageNumber: 2, PageSize: 2})
	mapped := Map(page, func(n *int) string { return strconv.Itoa(*n * 10) })

	assert.Equal(t, []string{"30", "40"}, mapped.Items)
	assert.Equal(t, page.TotalCount, mapped.TotalCount)
	assert.Equal(t, page.TotalPages, mapped.TotalPages)
	assert.True(t, mapped.HasPreviousPage)
	assert.True(t, mapped.HasNextPage)
}
