package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

func abc() []facility.Facility {
	return []facility.Facility{
		{Row: 1, Name: "A", Visits: 100, Rating: 4.0, Latitude: 30, Longitude: -100},
		{Row: 2, Name: "B", Visits: 400, Rating: 3.5, Latitude: 40, Longitude: -80},
		{Row: 3, Name: "C", Visits: 200, Rating: 4.8, Latitude: 35, Longitude: -90},
	}
}

func TestRadii(t *testing.T) {
	assert.Equal(t, []float64{2.5, 10, 5}, Radii(abc(), 10))
	assert.Equal(t, []float64{5, 20, 10}, Radii(abc(), 20))
}

func TestRadiiZeroMax(t *testing.T) {
	fs := []facility.Facility{{Name: "A"}, {Name: "B"}}
	assert.Equal(t, []float64{0, 0}, Radii(fs, 10))
	assert.Empty(t, Radii(nil, 10))
	assert.Equal(t, 0.0, Radius(5, 0, 10))
}

func TestRadiusMonotonic(t *testing.T) {
	prev := -1.0
	for v := 0; v <= 500; v += 25 {
		r := Radius(v, 500, 10)
		assert.GreaterOrEqual(t, r, prev)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 10.0)
		prev = r
	}
}

func TestPopupText(t *testing.T) {
	f := facility.Facility{Name: "St. Mary", Visits: 120, Rating: 4}
	assert.Equal(t, "<b>St. Mary</b><br>Patients: 120", PopupText(f, PopupOptions{}))
	assert.Equal(t, "<b>St. Mary</b><br>Patients: 120<br>Rating: 4.0", PopupText(f, PopupOptions{IncludeRating: true}))

	f = facility.Facility{Name: "A&B <Clinic>", Visits: 7, Rating: 3.2}
	assert.Equal(t, "<b>A&amp;B &lt;Clinic&gt;</b><br>Patients: 7<br>Rating: 3.2", PopupText(f, PopupOptions{IncludeRating: true}))
	assert.Equal(t, "A&amp;B &lt;Clinic&gt;", Tooltip(f))
}

func TestSortByVisits(t *testing.T) {
	in := abc()
	got := SortByVisits(in)
	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"B", "C", "A"}, names)
	assert.Equal(t, "A", in[0].Name, "input untouched")
}

func TestSortByVisitsStable(t *testing.T) {
	in := []facility.Facility{
		{Name: "X", Visits: 10}, {Name: "Y", Visits: 20}, {Name: "Z", Visits: 10}, {Name: "W", Visits: 20},
	}
	got := SortByVisits(in)
	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Y", "W", "X", "Z"}, names)
}

func TestCorrelationMatrixShape(t *testing.T) {
	m := Correlation(abc())
	require.Equal(t, []string{"Patients", "Rating"}, m.Columns)
	require.Len(t, m.Values, 2)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values[i] {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.GreaterOrEqual(t, m.Values[i][j], -1.0)
			assert.LessOrEqual(t, m.Values[i][j], 1.0)
		}
	}
	r, ok := m.At("Rating", "Patients")
	require.True(t, ok)
	assert.Less(t, r, 0.0)
}

func TestCorrelationPerfect(t *testing.T) {
	fs := []facility.Facility{
		{Visits: 1, Rating: 2, Latitude: 10}, {Visits: 2, Rating: 4, Latitude: 9}, {Visits: 3, Rating: 6, Latitude: 8},
	}
	m := Correlation(fs, facility.Visits, facility.Rating, facility.Latitude)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
	assert.InDelta(t, -1.0, m.Values[0][2], 1e-12)
	assert.Len(t, m.Columns, 3)
}

func TestCorrelationUndefinedIsZero(t *testing.T) {
	one := []facility.Facility{{Visits: 5, Rating: 4}}
	m := Correlation(one)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, m.Values)

	constant := []facility.Facility{{Visits: 5, Rating: 4}, {Visits: 6, Rating: 4}}
	m = Correlation(constant)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, m.Values)

	_, ok := m.At("Patients", "Latitude")
	assert.False(t, ok)
}

func TestCenterAndExtent(t *testing.T) {
	c, ok := Center(abc())
	require.True(t, ok)
	assert.InDelta(t, 35, c.Lat, 1e-9)
	assert.InDelta(t, -90, c.Lng, 1e-9)

	b, ok := Extent(abc())
	require.True(t, ok)
	assert.InDelta(t, 30, b.SouthWest.Lat, 1e-9)
	assert.InDelta(t, -100, b.SouthWest.Lng, 1e-9)
	assert.InDelta(t, 40, b.NorthEast.Lat, 1e-9)
	assert.InDelta(t, -80, b.NorthEast.Lng, 1e-9)

	_, ok = Center(nil)
	assert.False(t, ok)
	_, ok = Extent(nil)
	assert.False(t, ok)
}
