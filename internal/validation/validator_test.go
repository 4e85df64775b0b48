// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package validation

import (
	"strings"
	"testing"
)

type similarityRequest struct {
	FID      string `json:"fid" validate:"required,fid"`
	Username string `json:"secondaryUsername" validate:"required,fname"`
}

type lookupRequest struct {
	FID  string `json:"fid" validate:"required,fid"`
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=zero exclude"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	valid := []similarityRequest{
		{FID: "3", Username: "dwr"},
		{FID: "194372", Username: "v"},
		{FID: "1", Username: "vitalik.eth"},
		{FID: "12345678901234567890", Username: "web3-bytes"},
	}
	for _, req := range valid {
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("ValidateStruct(%+v) = %v, want nil", req, err)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       similarityRequest
		wantField string
		wantTag   string
	}{
		{"missing fid", similarityRequest{Username: "dwr"}, "fid", "required"},
		{"zero fid", similarityRequest{FID: "0", Username: "dwr"}, "fid", "fid"},
		{"leading zero", similarityRequest{FID: "007", Username: "dwr"}, "fid", "fid"},
		{"non numeric fid", similarityRequest{FID: "abc", Username: "dwr"}, "fid", "fid"},
		{"negative fid", similarityRequest{FID: "-5", Username: "dwr"}, "fid", "fid"},
		{"too long fid", similarityRequest{FID: "123456789012345678901", Username: "dwr"}, "fid", "fid"},
		{"missing username", similarityRequest{FID: "3"}, "secondaryUsername", "required"},
		{"uppercase username", similarityRequest{FID: "3", Username: "DWR"}, "secondaryUsername", "fname"},
		{"username with spaces", similarityRequest{FID: "3", Username: "d w r"}, "secondaryUsername", "fname"},
		{"username with quote", similarityRequest{FID: "3", Username: `dwr"}`}, "secondaryUsername", "fname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatalf("ValidateStruct(%+v) = nil, want error", tt.req)
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIError_Single(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&similarityRequest{FID: "x", Username: "dwr"})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "fid") {
		t.Errorf("Message = %q, want mention of fid", apiErr.Message)
	}
	if apiErr.Details["field"] != "fid" {
		t.Errorf("Details[field] = %v, want fid", apiErr.Details["field"])
	}
}

func TestToAPIError_Multiple(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&similarityRequest{})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(fields))
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}
}

func TestValidateStruct_OneOf(t *testing.T) {
	t.Parallel()

	if err := ValidateStruct(&lookupRequest{FID: "3", Mode: "exclude"}); err != nil {
		t.Errorf("valid mode rejected: %v", err)
	}
	verr := ValidateStruct(&lookupRequest{FID: "3", Mode: "drop"})
	if verr == nil {
		t.Fatal("invalid mode accepted")
	}
	if got := verr.Errors()[0].Error(); got != "mode must be one of: zero exclude" {
		t.Errorf("message = %q", got)
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
