package advisor

import (
	"math"
	"testing"

	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Examples(t *testing.T) {
	tests := []struct {
		name          string
		raw           models.RawObservation
		wantPerceived int
		wantCoat      bool
		wantReasons   []models.Reason
	}{
		{
			name:          "warm afternoon",
			raw:           models.RawObservation{Temperature: 25, Precipitation: 0, WindSpeed: 10, Humidity: 50, Hour: 14},
			wantPerceived: 25,
			wantCoat:      false,
			wantReasons:   []models.Reason{},
		},
		{
			name:          "cold and windy",
			raw:           models.RawObservation{Temperature: 10, Precipitation: 0, WindSpeed: 30, Humidity: 50, Hour: 14},
			wantPerceived: 9,
			wantCoat:      true,
			wantReasons:   []models.Reason{models.ReasonCold, models.ReasonWindy},
		},
		{
			name:          "warm rain",
			raw:           models.RawObservation{Temperature: 22, Precipitation: 1, WindSpeed: 5, Humidity: 40, Hour: 12},
			wantPerceived: 22,
			wantCoat:      true,
			wantReasons:   []models.Reason{models.ReasonRainy},
		},
		{
			name:          "mild night",
			raw:           models.RawObservation{Temperature: 16, Precipitation: 0, WindSpeed: 5, Humidity: 50, Hour: 2},
			wantPerceived: 14,
			wantCoat:      true,
			wantReasons:   []models.Reason{models.ReasonCold, models.ReasonNightAndCool},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, d := Evaluate(tt.raw)
			assert.Equal(t, tt.wantPerceived, w.PerceivedTemperature)
			assert.Equal(t, tt.wantCoat, d.TakeCoat)
			assert.Equal(t, tt.wantReasons, d.Reasons)
		})
	}
}

func TestNormalize_Adjustments(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawObservation
		want int
	}{
		{"calm day", models.RawObservation{Temperature: 18, WindSpeed: 20, Humidity: 70, Hour: 12}, 18},
		{"wind chill", models.RawObservation{Temperature: 18, WindSpeed: 40, Humidity: 50, Hour: 12}, 16},
		{"humid heat", models.RawObservation{Temperature: 30, WindSpeed: 0, Humidity: 90, Hour: 12}, 32},
		{"humid cold", models.RawObservation{Temperature: 10, WindSpeed: 0, Humidity: 90, Hour: 12}, 9},
		{"humid at exactly 20 counts as cold", models.RawObservation{Temperature: 20, Humidity: 90, Hour: 12}, 19},
		{"morning boundary is day", models.RawObservation{Temperature: 10, Hour: 6}, 10},
		{"evening boundary is day", models.RawObservation{Temperature: 10, Hour: 18}, 10},
		{"late evening is night", models.RawObservation{Temperature: 10, Hour: 19}, 8},
		{"everything at once", models.RawObservation{Temperature: 5, WindSpeed: 50, Humidity: 90, Hour: 23}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw).PerceivedTemperature)
		})
	}
}

func TestNormalize_RoundsDisplayFields(t *testing.T) {
	w := Normalize(models.RawObservation{
		Temperature:   12.6,
		Precipitation: 0.2,
		WindSpeed:     14.4,
		Humidity:      64.5,
		Hour:          9,
	})

	assert.Equal(t, 13, w.Temperature)
	assert.True(t, w.IsRainy)
	assert.Equal(t, 14, w.WindSpeed)
	assert.Equal(t, 65, w.Humidity)
	assert.Equal(t, 9, w.Hour)
	assert.Equal(t, 13, w.PerceivedTemperature)
}

func TestNormalize_RoundsAfterAdjustment(t *testing.T) {
	// 14.6 - (24.4-20)*0.1 = 14.16. Rounding the inputs first would give
	// 15 - 0.4 = 14.6 -> 15.
	w := Normalize(models.RawObservation{Temperature: 14.6, WindSpeed: 24.4, Humidity: 50, Hour: 12})
	assert.Equal(t, 14, w.PerceivedTemperature)
	assert.Equal(t, 15, w.Temperature)
}

func TestNormalize_LenientInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawObservation
		want models.NormalizedWeather
	}{
		{
			name: "zero value",
			raw:  models.RawObservation{},
			want: models.NormalizedWeather{Hour: 0, PerceivedTemperature: -2},
		},
		{
			name: "negative wind is ignored",
			raw:  models.RawObservation{Temperature: 10, WindSpeed: -15, Hour: 12},
			want: models.NormalizedWeather{Temperature: 10, WindSpeed: -15, Hour: 12, PerceivedTemperature: 10},
		},
		{
			name: "humidity above 100 still adjusts",
			raw:  models.RawObservation{Temperature: 10, Humidity: 150, Hour: 12},
			want: models.NormalizedWeather{Temperature: 10, Humidity: 150, Hour: 12, PerceivedTemperature: 6},
		},
		{
			name: "non-finite values count as missing",
			raw:  models.RawObservation{Temperature: math.NaN(), WindSpeed: math.Inf(1), Humidity: math.Inf(-1), Precipitation: math.NaN(), Hour: 12},
			want: models.NormalizedWeather{Hour: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() { Normalize(tt.raw) })
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := models.RawObservation{Temperature: 7.3, Precipitation: 0.4, WindSpeed: 33.3, Humidity: 88.8, Hour: 22}
	first := Normalize(raw)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Normalize(raw))
	}
}

func TestNormalize_IdempotentOnIntegerInputs(t *testing.T) {
	for temp := -20; temp <= 40; temp += 3 {
		for wind := 0; wind <= 60; wind += 7 {
			for humidity := 40; humidity <= 100; humidity += 15 {
				for _, hour := range []int{2, 6, 12, 18, 21} {
					raw := models.RawObservation{
						Temperature: float64(temp),
						WindSpeed:   float64(wind),
						Humidity:    float64(humidity),
						Hour:        hour,
					}
					once := Normalize(raw)
					again := Normalize(once.Raw())
					assert.Equal(t, once.PerceivedTemperature, again.PerceivedTemperature, "re-normalizing %+v", raw)
				}
			}
		}
	}
}

// Display fields are rounded before the second pass, so fractional inputs
// can drift by a degree. Re-normalizing a normalized record is stable.
func TestNormalize_FractionalInputsCanDrift(t *testing.T) {
	raw := models.RawObservation{Temperature: 14.6, WindSpeed: 24.4, Humidity: 0, Hour: 12}

	once := Normalize(raw)
	again := Normalize(once.Raw())

	assert.Equal(t, 14, once.PerceivedTemperature)
	assert.Equal(t, 15, again.PerceivedTemperature)
	assert.Contains(t, Decide(once).Reasons, models.ReasonCold)
	assert.NotContains(t, Decide(again).Reasons, models.ReasonCold)

	assert.Equal(t, again, Normalize(again.Raw()))
}

func TestFeelsLike_WindMonotonic(t *testing.T) {
	prev := FeelsLike(models.RawObservation{Temperature: 12, WindSpeed: 20, Hour: 12})
	for wind := 21.0; wind <= 120; wind++ {
		got := FeelsLike(models.RawObservation{Temperature: 12, WindSpeed: wind, Hour: 12})
		require.Less(t, got, prev, "wind %v should feel colder than %v", wind, wind-1)
		prev = got
	}
}

func TestFeelsLike_HumidityMonotonic(t *testing.T) {
	t.Run("warm air feels hotter", func(t *testing.T) {
		prev := FeelsLike(models.RawObservation{Temperature: 26, Humidity: 70, Hour: 12})
		for h := 71.0; h <= 100; h++ {
			got := FeelsLike(models.RawObservation{Temperature: 26, Humidity: h, Hour: 12})
			require.Greater(t, got, prev)
			prev = got
		}
	})

	for _, temp := range []float64{20, 12, -5} {
		prev := FeelsLike(models.RawObservation{Temperature: temp, Humidity: 70, Hour: 12})
		for h := 71.0; h <= 100; h++ {
			got := FeelsLike(models.RawObservation{Temperature: temp, Humidity: h, Hour: 12})
			require.Less(t, got, prev, "temperature %v humidity %v", temp, h)
			prev = got
		}
	}
}

func TestNormalize_WindNeverWarms(t *testing.T) {
	prev := Normalize(models.RawObservation{Temperature: 12, WindSpeed: 20, Hour: 12}).PerceivedTemperature
	for wind := 21.0; wind <= 120; wind++ {
		got := Normalize(models.RawObservation{Temperature: 12, WindSpeed: wind, Hour: 12}).PerceivedTemperature
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestDecide_Rules(t *testing.T) {
	tests := []struct {
		name string
		w    models.NormalizedWeather
		want []models.Reason
	}{
		{"cold boundary", models.NormalizedWeather{PerceivedTemperature: 15, Hour: 12}, []models.Reason{}},
		{"just cold", models.NormalizedWeather{PerceivedTemperature: 14, Hour: 12}, []models.Reason{models.ReasonCold}},
		{"windy needs wind above 20", models.NormalizedWeather{WindSpeed: 20, PerceivedTemperature: 17, Hour: 12}, []models.Reason{}},
		{"windy and cool", models.NormalizedWeather{WindSpeed: 21, PerceivedTemperature: 19, Hour: 12}, []models.Reason{models.ReasonWindy}},
		{"windy but warm", models.NormalizedWeather{WindSpeed: 40, PerceivedTemperature: 20, Hour: 12}, []models.Reason{}},
		{"night and cool", models.NormalizedWeather{PerceivedTemperature: 17, Hour: 22}, []models.Reason{models.ReasonNightAndCool}},
		{"night but mild", models.NormalizedWeather{PerceivedTemperature: 18, Hour: 22}, []models.Reason{}},
		{
			name: "all four in order",
			w:    models.NormalizedWeather{IsRainy: true, WindSpeed: 35, PerceivedTemperature: 3, Hour: 4},
			want: []models.Reason{models.ReasonCold, models.ReasonRainy, models.ReasonWindy, models.ReasonNightAndCool},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.w)
			assert.Equal(t, tt.want, d.Reasons)
			assert.Equal(t, len(tt.want) > 0, d.TakeCoat)
		})
	}
}

func TestDecide_ColdAlwaysMeansCoat(t *testing.T) {
	for perceived := -40; perceived < ColdBelow; perceived++ {
		for hour := 0; hour < 24; hour++ {
			for _, wind := range []int{0, 20, 45} {
				w := models.NormalizedWeather{PerceivedTemperature: perceived, Hour: hour, WindSpeed: wind}
				require.True(t, Decide(w).TakeCoat, "perceived %d hour %d wind %d", perceived, hour, wind)
			}
		}
	}
}
