package costmodel

import (
	"math"
	"testing"

	"seaway/pkg/apperror"
	"seaway/services/route-svc/internal/maritime"
)

func testVessel(t maritime.VesselType, speed, dwt float64) *maritime.VesselConstraints {
	return &maritime.VesselConstraints{
		Type:        t,
		Length:      300,
		Beam:        45,
		Draft:       14,
		CruiseSpeed: speed,
		DWT:         dwt,
		MaxRange:    10000,
	}
}

func TestFuelTons_ReferenceVessel(t *testing.T) {
	// A 50000 DWT container vessel at 20 kn sails at the reference point,
	// so size and speed factors are both 1.
	v := testVessel(maritime.VesselContainer, 20, 50000)

	got, err := FuelTons(FuelInput{DistanceNM: 480, Vessel: v})
	if err != nil {
		t.Fatalf("FuelTons failed: %v", err)
	}

	// 480 nm at 20 kn is exactly one day.
	// per day = 150*1*1*(1+0.15*0.8)*1*1 + 15*1 = 150*1.12 + 15 = 183
	if math.Abs(got-183.0) > 0.05 {
		t.Errorf("FuelTons = %v, want 183.0", got)
	}
}

func TestFuelTons_RoundedToTenth(t *testing.T) {
	v := testVessel(maritime.VesselContainer, 18, 85000)

	got, err := FuelTons(FuelInput{DistanceNM: 1234.5, Vessel: v})
	if err != nil {
		t.Fatalf("FuelTons failed: %v", err)
	}

	scaled := got * 10
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Errorf("FuelTons = %v, want one decimal place", got)
	}
}

func TestFuelTons_MonotoneInDistance(t *testing.T) {
	v := testVessel(maritime.VesselContainer, 18, 85000)

	prev := 0.0
	for _, d := range []float64{100, 500, 1000, 5000, 10000} {
		got, err := FuelTons(FuelInput{DistanceNM: d, Vessel: v})
		if err != nil {
			t.Fatalf("FuelTons(%v) failed: %v", d, err)
		}
		if got < prev {
			t.Errorf("FuelTons(%v) = %v, decreased from %v", d, got, prev)
		}
		prev = got
	}
}

func TestFuelTons_FasterBurnsMore(t *testing.T) {
	slow := testVessel(maritime.VesselContainer, 15, 85000)
	fast := testVessel(maritime.VesselContainer, 22, 85000)

	slowFuel, err := FuelTons(FuelInput{DistanceNM: 5000, Vessel: slow})
	if err != nil {
		t.Fatal(err)
	}
	fastFuel, err := FuelTons(FuelInput{DistanceNM: 5000, Vessel: fast})
	if err != nil {
		t.Fatal(err)
	}

	if fastFuel < slowFuel {
		t.Errorf("faster vessel burned less: %v < %v", fastFuel, slowFuel)
	}
}

func TestFuelTons_ProfileDiffers(t *testing.T) {
	container := testVessel(maritime.VesselContainer, 18, 85000)
	bulk := testVessel(maritime.VesselBulkCarrier, 18, 85000)

	cf, _ := FuelTons(FuelInput{DistanceNM: 5000, Vessel: container})
	bf, _ := FuelTons(FuelInput{DistanceNM: 5000, Vessel: bulk})

	if bf >= cf {
		t.Errorf("bulk carrier should burn less than container at the same speed: %v >= %v", bf, cf)
	}
}

func TestFuelTons_UnknownTypeUsesContainerProfile(t *testing.T) {
	container := testVessel(maritime.VesselContainer, 18, 85000)
	roro := testVessel(maritime.VesselRoRo, 18, 85000)

	cf, _ := FuelTons(FuelInput{DistanceNM: 5000, Vessel: container})
	rf, _ := FuelTons(FuelInput{DistanceNM: 5000, Vessel: roro})

	if cf != rf {
		t.Errorf("uncalibrated type should fall back to container profile: %v != %v", rf, cf)
	}
}

func TestFuelTons_MissingDWTDefaults(t *testing.T) {
	known := testVessel(maritime.VesselContainer, 18, 50000)
	unknown := testVessel(maritime.VesselContainer, 18, 0)

	kf, _ := FuelTons(FuelInput{DistanceNM: 5000, Vessel: known})
	uf, _ := FuelTons(FuelInput{DistanceNM: 5000, Vessel: unknown})

	if kf != uf {
		t.Errorf("missing DWT should default to 50000: %v != %v", uf, kf)
	}
}

func TestFuelTons_InputRejection(t *testing.T) {
	v := testVessel(maritime.VesselContainer, 18, 85000)

	tests := []struct {
		name string
		in   FuelInput
		code apperror.ErrorCode
	}{
		{"zero distance", FuelInput{DistanceNM: 0, Vessel: v}, apperror.CodeInvalidDistance},
		{"negative distance", FuelInput{DistanceNM: -10, Vessel: v}, apperror.CodeInvalidDistance},
		{"zero speed", FuelInput{DistanceNM: 100, Vessel: testVessel(maritime.VesselContainer, 0, 85000)}, apperror.CodeInvalidSpeed},
		{"weather too low", FuelInput{DistanceNM: 100, Vessel: v, WeatherFactor: 0.4}, apperror.CodeInvalidFactor},
		{"weather too high", FuelInput{DistanceNM: 100, Vessel: v, WeatherFactor: 2.1}, apperror.CodeInvalidFactor},
		{"load over one", FuelInput{DistanceNM: 100, Vessel: v, LoadFactor: 1.1}, apperror.CodeInvalidFactor},
		{"nil vessel", FuelInput{DistanceNM: 100}, apperror.CodeNilInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FuelTons(tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if apperror.Code(err) != tt.code {
				t.Errorf("code = %s, want %s", apperror.Code(err), tt.code)
			}
		})
	}
}

func TestFuelTons_DailyFloor(t *testing.T) {
	// A tiny vessel whose computed burn drops below the 5 t/day floor.
	v := &maritime.VesselConstraints{
		Type:        maritime.VesselFishing,
		Length:      30,
		Beam:        8,
		Draft:       3,
		CruiseSpeed: 10,
		DWT:         200,
		MaxRange:    2000,
	}

	// 240 nm at 10 kn is one day
	got, err := FuelTons(FuelInput{DistanceNM: 240, Vessel: v})
	if err != nil {
		t.Fatal(err)
	}
	if got < 5.0 {
		t.Errorf("FuelTons = %v, want at least the 5 t/day floor", got)
	}
}
