package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestBSDF_FrameRoundTrip(t *testing.T) {
	si := flatInteraction()
	si.SetShadingGeometry(core.NewVec3(0.2, 0.1, 1), core.NewVec3(1, 0.3, 0), core.NewVec3(0, 1, 0))
	bsdf := NewBSDF(si, 1)

	v := core.NewVec3(0.3, -0.5, 0.7)
	back := bsdf.LocalToWorld(bsdf.WorldToLocal(v))
	if !vecClose(back, v, 1e-12) {
		t.Errorf("Expected round trip to return %v, got %v", v, back)
	}
	if local := bsdf.WorldToLocal(bsdf.ShadingNormal()); !vecClose(local, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected shading normal to map to +Z, got %v", local)
	}
}

func TestBSDF_DiffuseAlbedoConverges(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	reflectance := core.NewVec3(0.5, 0.25, 0.8)
	si := flatInteraction()
	NewMatte(reflectance).ComputeScatteringFunctions(si, nil, Radiance, true)

	for _, angle := range []float64{0, 30, 60, 85} {
		estimate := estimateAlbedo(si.BSDF, directionAt(angle), 10000, random)
		if !vecClose(estimate, reflectance, 1e-9) {
			t.Errorf("Angle %.0f: expected albedo %v, got %v", angle, reflectance, estimate)
		}
	}
}

func TestBxDF_SampledEstimateMatchesUniformEstimate(t *testing.T) {
	orenNayar := NewOrenNayar(core.NewVec3(0.8, 0.8, 0.8), 25)
	tests := []struct {
		name string
		bxdf BxDF
	}{
		{"OrenNayar", &orenNayar},
		{"Microfacet", &MicrofacetReflection{
			R:            core.NewVec3(1, 1, 1),
			Distribution: TrowbridgeReitz{AlphaX: 0.4, AlphaY: 0.4},
			Fresnel:      FresnelNoOp{},
		}},
		{"AnisotropicMicrofacet", &MicrofacetReflection{
			R:            core.NewVec3(1, 1, 1),
			Distribution: TrowbridgeReitz{AlphaX: 0.3, AlphaY: 0.6},
			Fresnel:      FresnelDielectric{EtaI: 1, EtaT: 1.5},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			random := rand.New(rand.NewSource(7))
			si := flatInteraction()
			bsdf := NewBSDF(si, 1)
			bsdf.Add(tt.bxdf)

			wo := directionAt(40)
			sampled := estimateAlbedo(&bsdf, wo, 200000, random)
			uniform := estimateAlbedoUniform(tt.bxdf, wo, 400000, random)
			if math.Abs(sampled.X-uniform.X) > 0.03*uniform.X+0.005 {
				t.Errorf("Expected importance-sampled estimate %f to match uniform estimate %f", sampled.X, uniform.X)
			}
			if sampled.X > 1.0+0.01 {
				t.Errorf("Expected albedo at most 1, got %f", sampled.X)
			}
		})
	}
}

func TestBSDF_LambertianTransmissionConverges(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	transmittance := core.NewVec3(0.6, 0.6, 0.6)
	bsdf := NewBSDF(flatInteraction(), 1)
	bsdf.Add(&LambertianTransmission{T: transmittance})

	estimate := estimateAlbedo(&bsdf, directionAt(20), 5000, random)
	if !vecClose(estimate, transmittance, 1e-9) {
		t.Errorf("Expected transmittance %v, got %v", transmittance, estimate)
	}
}

func TestBSDF_FRespectsHemisphereClass(t *testing.T) {
	si := flatInteraction()
	NewMatte(core.NewVec3(0.5, 0.5, 0.5)).ComputeScatteringFunctions(si, nil, Radiance, true)

	wo := directionAt(30)
	if f := si.BSDF.F(wo, directionAt(-50), BSDFAll); f.IsBlack() {
		t.Error("Expected non-zero reflection for directions on the same side")
	}
	below := directionAt(-50)
	below.Z = -below.Z
	if f := si.BSDF.F(wo, below, BSDFAll); !f.IsBlack() {
		t.Errorf("Expected zero for a transmission pair on a reflective BSDF, got %v", f)
	}
	if f := si.BSDF.F(wo, directionAt(-50), BSDFTransmission); !f.IsBlack() {
		t.Errorf("Expected zero when flags exclude every lobe, got %v", f)
	}
}

func TestBSDF_PdfAveragesMatchingLobes(t *testing.T) {
	si := flatInteraction()
	diffuse := &LambertianReflection{R: core.NewVec3(0.5, 0.5, 0.5)}
	glossy := &MicrofacetReflection{
		R:            core.NewVec3(0.5, 0.5, 0.5),
		Distribution: TrowbridgeReitz{AlphaX: 0.2, AlphaY: 0.2},
		Fresnel:      FresnelNoOp{},
	}
	bsdf := NewBSDF(si, 1)
	bsdf.Add(diffuse)
	bsdf.Add(glossy)

	wo, wi := directionAt(30), directionAt(-25)
	expected := (diffuse.Pdf(wo, wi) + glossy.Pdf(wo, wi)) / 2
	if got := bsdf.Pdf(wo, wi, BSDFAll); math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected averaged pdf %f, got %f", expected, got)
	}
	if got := bsdf.Pdf(wo, wi, BSDFReflection|BSDFDiffuse); math.Abs(got-diffuse.Pdf(wo, wi)) > 1e-12 {
		t.Errorf("Expected diffuse-only pdf %f, got %f", diffuse.Pdf(wo, wi), got)
	}

	// SampleF reports the same aggregate pdf and value the evaluation methods give
	random := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		f, wiS, pdf, _ := bsdf.SampleF(wo, core.NewVec2(random.Float64(), random.Float64()), BSDFAll)
		if pdf == 0 {
			continue
		}
		if want := bsdf.Pdf(wo, wiS, BSDFAll); math.Abs(pdf-want) > 1e-9*max(1, want) {
			t.Fatalf("Sample %d: expected pdf %f, got %f", i, want, pdf)
		}
		if want := bsdf.F(wo, wiS, BSDFAll); !vecClose(f, want, 1e-9*max(1, want.X)) {
			t.Fatalf("Sample %d: expected f %v, got %v", i, want, f)
		}
	}
}

func TestBSDF_SampleFFailsFast(t *testing.T) {
	empty := NewBSDF(flatInteraction(), 1)
	if f, _, pdf, _ := empty.SampleF(directionAt(10), core.NewVec2(0.5, 0.5), BSDFAll); pdf != 0 || !f.IsBlack() {
		t.Errorf("Expected zero sample from empty BSDF, got f=%v pdf=%f", f, pdf)
	}

	si := flatInteraction()
	NewMatte(core.NewVec3(0.5, 0.5, 0.5)).ComputeScatteringFunctions(si, nil, Radiance, true)
	grazing := core.NewVec3(1, 0, 0)
	if f, _, pdf, _ := si.BSDF.SampleF(grazing, core.NewVec2(0.3, 0.3), BSDFAll); pdf != 0 || !f.IsBlack() {
		t.Errorf("Expected zero sample for grazing wo, got f=%v pdf=%f", f, pdf)
	}
	if f := si.BSDF.F(grazing, directionAt(10), BSDFAll); !f.IsBlack() {
		t.Errorf("Expected zero value for grazing wo, got %v", f)
	}
	if f, _, pdf, _ := si.BSDF.SampleF(directionAt(10), core.NewVec2(0.3, 0.3), BSDFSpecular|BSDFReflection); pdf != 0 || !f.IsBlack() {
		t.Errorf("Expected zero sample when no lobe matches, got f=%v pdf=%f", f, pdf)
	}
}

func TestBSDF_AddOverflowPanics(t *testing.T) {
	bsdf := NewBSDF(flatInteraction(), 1)
	for i := 0; i < MaxBxDFs; i++ {
		bsdf.Add(&LambertianReflection{})
	}
	defer func() {
		if recover() == nil {
			t.Error("Expected panic when adding more than MaxBxDFs lobes")
		}
	}()
	bsdf.Add(&LambertianReflection{})
}

func TestBxDFType_String(t *testing.T) {
	if got := (BSDFReflection | BSDFSpecular).String(); got != "reflection|specular" {
		t.Errorf("Expected reflection|specular, got %s", got)
	}
	if !(BSDFReflection | BSDFDiffuse).Matches(BSDFAll) {
		t.Error("Expected diffuse reflection to match all flags")
	}
	if (BSDFReflection | BSDFDiffuse).Matches(BSDFReflection | BSDFSpecular) {
		t.Error("Expected diffuse reflection not to match specular flags")
	}
}

func TestSurfaceInteraction_Le(t *testing.T) {
	si := flatInteraction()
	if le := si.Le(core.NewVec3(0, 0, 1)); !le.IsBlack() {
		t.Errorf("Expected no emission without a primitive, got %v", le)
	}
	si.Primitive = &mockPrimitive{light: &mockAreaLight{radiance: core.NewVec3(2, 2, 2)}}
	if le := si.Le(core.NewVec3(0, 0, 1)); le != core.NewVec3(2, 2, 2) {
		t.Errorf("Expected emission (2,2,2), got %v", le)
	}
	if le := si.Le(core.NewVec3(0, 0, -1)); !le.IsBlack() {
		t.Errorf("Expected no emission from the back side, got %v", le)
	}

	si.Primitive = &mockPrimitive{}
	si.ComputeScatteringFunctions(nil, Radiance, true)
	if si.BSDF != nil {
		t.Error("Expected nil BSDF for a primitive without material")
	}
}
