package core

import (
	"math"
	"testing"

	rainbow "github.com/BackendStack21/rainbow-go"
)

func TestGetParams(t *testing.T) {
	for _, set := range []rainbow.ParamSet{rainbow.Toy, rainbow.Small, rainbow.Classic} {
		params, err := GetParams(set)
		if err != nil {
			t.Fatalf("GetParams(%s) failed: %v", set, err)
		}
		if params.Set != set {
			t.Errorf("Expected %s, got %s", set, params.Set)
		}
		if err := ValidateParams(params); err != nil {
			t.Errorf("ValidateParams(%s) failed: %v", set, err)
		}
	}

	classic, _ := GetParams(rainbow.Classic)
	if classic.N() != 96 || classic.M() != 64 {
		t.Errorf("Classic dimensions = (%d, %d), want (96, 64)", classic.N(), classic.M())
	}

	// Test invalid
	_, err := GetParams("INVALID")
	if err == nil {
		t.Error("GetParams(INVALID) should fail")
	}
}

func TestValidateParams(t *testing.T) {
	params := ToyParams

	invalid := params
	invalid.V1 = 0
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject V1=0")
	}

	invalid = params
	invalid.O1 = -1
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject negative O1")
	}

	invalid = params
	invalid.O2 = 0
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject O2=0")
	}

	invalid = rainbow.Params{V1: 200, O1: 50, O2: 50}
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject n > MaxVariables")
	}

	// Counts large enough to overflow the sum
	invalid = rainbow.Params{V1: math.MaxInt, O1: math.MaxInt, O2: 1}
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject counts whose sum overflows")
	}
	invalid = rainbow.Params{V1: 1, O1: 1, O2: MaxVariables + 1}
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject O2 > MaxVariables")
	}

	// Unknown set name
	invalid = rainbow.Params{Set: "rainbow-tiny", V1: 3, O1: 2, O2: 4}
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject an unknown set name")
	}

	// Named set with the wrong shape
	invalid = ClassicParams
	invalid.V1 = 31
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject a named set with altered dimensions")
	}

	// Unnamed custom shapes are fine
	custom := rainbow.Params{V1: 3, O1: 2, O2: 4}
	if err := ValidateParams(custom); err != nil {
		t.Errorf("ValidateParams rejected custom params: %v", err)
	}
}
