package watering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/plant"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func today() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func f64(v float64) *float64 { return &v }

func mildForecast(days int) forecast.Forecast {
	fc := make(forecast.Forecast, 0, days)
	for i := 0; i < days; i++ {
		fc = append(fc, forecast.Daily{
			Date:             today().AddDate(0, 0, i),
			PrecipitationSum: f64(0),
			TemperatureMax:   f64(22),
			TemperatureMin:   f64(16),
		})
	}
	return fc
}

func tomatoTemplate() *plant.Template {
	return &plant.Template{
		Name:                "Tomate cerise",
		Type:                plant.TypeFruit,
		WateringQuantityML:  500,
		WateringFrequency:   "tous les 2 jours",
		ExpectedHarvestDays: 90,
	}
}

func TestComputeMildWeatherEndToEnd(t *testing.T) {
	d := Compute(Input{
		Template: tomatoTemplate(),
		Location: "jardin",
		Forecast: mildForecast(3),
		Now:      testNow,
	})

	assert.Equal(t, 2, d.FrequencyDays)
	assert.Equal(t, today().AddDate(0, 0, 2), d.NextDate)
	assert.Equal(t, 500.0, d.QuantityML)
	assert.Nil(t, d.AutoValidation)
	assert.Empty(t, d.Cards)
	assert.True(t, d.Outdoor)
}

func TestComputeRainTodayBoundaryInclusive(t *testing.T) {
	fc := mildForecast(3)
	fc[0].PrecipitationSum = f64(5.0)

	last := today().AddDate(0, 0, -2)
	d := Compute(Input{
		Template:      tomatoTemplate(),
		Location:      "jardin",
		LastWateredAt: &last,
		Forecast:      fc,
		Now:           testNow,
	})

	require.NotNil(t, d.AutoValidation)
	assert.Equal(t, plant.ReasonRainToday, d.AutoValidation.Reason)
	assert.Equal(t, 5.0, d.AutoValidation.PrecipitationMM)
	// The cycle restarts from today.
	assert.Equal(t, today(), d.LastWateredAt)
	assert.Equal(t, today().AddDate(0, 0, 2), d.NextDate)

	require.Len(t, d.Cards, 1)
	assert.Equal(t, plant.CardWateringAuto, d.Cards[0].Type)
	assert.Equal(t, plant.SeveritySuccess, d.Cards[0].Severity)
}

func TestComputeRainForecastSkipsCycleForward(t *testing.T) {
	fc := mildForecast(3)
	fc[1].PrecipitationSum = f64(6.0)

	// Watered yesterday with a two-day cycle: next falls tomorrow.
	last := today().AddDate(0, 0, -1)
	d := Compute(Input{
		Template:      tomatoTemplate(),
		Location:      "jardin",
		LastWateredAt: &last,
		Forecast:      fc,
		Now:           testNow,
	})

	require.NotNil(t, d.AutoValidation)
	assert.Equal(t, plant.ReasonRainForecast, d.AutoValidation.Reason)
	// Tomorrow plus one more frequency interval.
	assert.Equal(t, today().AddDate(0, 0, 3), d.NextDate)
}

func TestComputeIndoorIgnoresRain(t *testing.T) {
	fc := mildForecast(3)
	fc[0].PrecipitationSum = f64(40)
	fc[1].PrecipitationSum = f64(40)

	d := Compute(Input{
		Template: tomatoTemplate(),
		Location: "kitchen windowsill",
		Forecast: fc,
		Now:      testNow,
	})

	assert.Nil(t, d.AutoValidation)
	assert.Equal(t, 500.0, d.QuantityML)
	assert.False(t, d.Outdoor)
	assert.Nil(t, d.DangerCard())
}

func TestComputeAdjustmentsCompose(t *testing.T) {
	fc := mildForecast(3)
	fc[0].PrecipitationSum = f64(3)
	fc[0].TemperatureMax = f64(33)

	d := Compute(Input{
		Template: tomatoTemplate(),
		Location: "jardin",
		Forecast: fc,
		Now:      testNow,
	})

	// 500 × 0.8 (moderate rain) × 1.2 (heat) = 480.
	assert.Equal(t, 480.0, d.QuantityML)
	assert.Nil(t, d.AutoValidation)
}

func TestComputeColdReducesQuantity(t *testing.T) {
	fc := mildForecast(3)
	fc[0].TemperatureMax = f64(8)

	d := Compute(Input{
		Template: tomatoTemplate(),
		Location: "jardin",
		Forecast: fc,
		Now:      testNow,
	})

	assert.Equal(t, 450.0, d.QuantityML)
}

func TestComputeHeavyRainTomorrowPostponesOneDay(t *testing.T) {
	fc := mildForecast(3)
	fc[1].PrecipitationSum = f64(8)

	// Next would land in two days (offset 2); day 2 is dry, so no
	// auto-validation, but tomorrow's downpour adds a day.
	d := Compute(Input{
		Template: tomatoTemplate(),
		Location: "jardin",
		Forecast: fc,
		Now:      testNow,
	})

	assert.Nil(t, d.AutoValidation)
	assert.Equal(t, today().AddDate(0, 0, 3), d.NextDate)
}

func TestComputeCumulativeRainDangerCardTomato(t *testing.T) {
	fc := mildForecast(3)
	fc[0].PrecipitationSum = f64(18)
	fc[1].PrecipitationSum = f64(14)

	d := Compute(Input{
		Template: tomatoTemplate(),
		Location: "jardin",
		Forecast: fc,
		Now:      testNow,
	})

	card := d.DangerCard()
	require.NotNil(t, card)
	assert.Equal(t, plant.SeverityWarning, card.Severity)
	assert.Contains(t, card.Message, "blight")
}

func TestComputeCumulativeRainDangerFallbacks(t *testing.T) {
	fc := mildForecast(3)
	fc[0].PrecipitationSum = f64(30)

	cactus := &plant.Template{Name: "Cactus boule", WateringQuantityML: 50, WateringFrequency: "monthly"}
	d := Compute(Input{Template: cactus, Location: "terrasse", Forecast: fc, Now: testNow})
	require.NotNil(t, d.DangerCard())
	assert.Contains(t, d.DangerCard().Message, "overwatering")

	pepper := &plant.Template{Name: "Poivron", Type: plant.TypeFruit, WateringQuantityML: 400, WateringFrequency: "daily"}
	d = Compute(Input{Template: pepper, Location: "jardin", Stage: "fruiting", Forecast: fc, Now: testNow})
	require.NotNil(t, d.DangerCard())
	assert.Contains(t, d.DangerCard().Message, "splitting")

	carrot := &plant.Template{Name: "Carotte", Type: plant.TypeVegetable, WateringQuantityML: 300, WateringFrequency: "daily"}
	d = Compute(Input{Template: carrot, Location: "jardin", Forecast: fc, Now: testNow})
	require.NotNil(t, d.DangerCard())
	assert.Contains(t, d.DangerCard().Message, "vegetables")
}

func TestComputeHeatAndColdAdvisories(t *testing.T) {
	fc := mildForecast(3)
	fc[0].TemperatureMax = f64(31)
	fc[0].TemperatureMin = f64(12)

	indoor := Compute(Input{
		Template: tomatoTemplate(),
		Location: "living room",
		Forecast: fc,
		Now:      testNow,
	})

	var types []string
	for _, card := range indoor.Cards {
		types = append(types, card.Type)
	}
	assert.Contains(t, types, plant.CardColdAlert)
	assert.Contains(t, types, plant.CardHeatAlert)

	outdoor := Compute(Input{
		Template: tomatoTemplate(),
		Location: "jardin",
		Forecast: fc,
		Now:      testNow,
	})
	for _, card := range outdoor.Cards {
		// The cold advisory is indoor-only.
		assert.NotEqual(t, plant.CardColdAlert, card.Type)
		if card.Type == plant.CardHeatAlert {
			assert.Contains(t, card.Message, "mulch")
		}
	}
}

func TestComputeNextDateAlwaysStrictlyAfterToday(t *testing.T) {
	// A long-neglected plantation: the candidate lands far in the past and
	// must roll forward by whole intervals.
	last := today().AddDate(0, 0, -10)
	d := Compute(Input{
		Template:      &plant.Template{Name: "Basilic", WateringQuantityML: 200, WateringFrequency: "every 3 days"},
		Location:      "balcon",
		LastWateredAt: &last,
		Forecast:      mildForecast(3),
		Now:           testNow,
	})

	assert.True(t, d.NextDate.After(today()))
	assert.Equal(t, today().AddDate(0, 0, 2), d.NextDate)
}

func TestComputeDefaultsWithoutTemplate(t *testing.T) {
	d := Compute(Input{Location: "jardin", Forecast: nil, Now: testNow})

	assert.Equal(t, plant.DefaultFrequencyDays, d.FrequencyDays)
	assert.Equal(t, 500.0, d.QuantityML)
	assert.Equal(t, today().AddDate(0, 0, 3), d.NextDate)
}

func TestComputeManualWateringResetsReference(t *testing.T) {
	last := today().AddDate(0, 0, -5)
	d := Compute(Input{
		Template:       tomatoTemplate(),
		Location:       "jardin",
		LastWateredAt:  &last,
		ManualWatering: true,
		Forecast:       mildForecast(3),
		Now:            testNow,
	})

	assert.Equal(t, today(), d.LastWateredAt)
	assert.Equal(t, today().AddDate(0, 0, 2), d.NextDate)
}
