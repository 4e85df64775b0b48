// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package similarity

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/tomtom215/farmix/internal/models"
)

func TestScalarOverlap(t *testing.T) {
	tests := []struct {
		name       string
		a, b       []string
		wantRatio  float64
		wantCommon []string
	}{
		{
			name:       "nft subset",
			a:          []string{"imgA", "imgB"},
			b:          []string{"imgA"},
			wantRatio:  50,
			wantCommon: []string{"imgA"},
		},
		{
			name:       "second empty",
			a:          []string{"USDC", "WETH"},
			b:          []string{},
			wantRatio:  0,
			wantCommon: []string{},
		},
		{
			name:       "first nil",
			a:          nil,
			b:          []string{"USDC"},
			wantRatio:  0,
			wantCommon: []string{},
		},
		{
			name:       "both empty",
			wantRatio:  0,
			wantCommon: []string{},
		},
		{
			name:       "identical sets",
			a:          []string{"x", "y"},
			b:          []string{"y", "x"},
			wantRatio:  100,
			wantCommon: []string{"x", "y"},
		},
		{
			name:       "duplicates counted once",
			a:          []string{"x", "x", "y"},
			b:          []string{"x", "z", "z"},
			wantRatio:  50,
			wantCommon: []string{"x"},
		},
		{
			name:       "disjoint",
			a:          []string{"a"},
			b:          []string{"b"},
			wantRatio:  0,
			wantCommon: []string{},
		},
		{
			name:       "common follows first input order",
			a:          []string{"c", "b", "a"},
			b:          []string{"a", "b", "c", "d"},
			wantRatio:  75,
			wantCommon: []string{"c", "b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScalarOverlap(tt.a, tt.b)
			if got.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", got.Ratio, tt.wantRatio)
			}
			if got.Common == nil {
				t.Fatal("Common must never be nil")
			}
			if !reflect.DeepEqual(got.Common, tt.wantCommon) {
				t.Errorf("Common = %v, want %v", got.Common, tt.wantCommon)
			}
		})
	}
}

func TestKeyedOverlap_Channels(t *testing.T) {
	a := []models.ChannelMembership{
		{ChannelID: "c1", ChannelName: "One", ImageURL: "https://img/one-a.png"},
	}
	b := []models.ChannelMembership{
		{ChannelID: "c1", ChannelName: "One", ImageURL: "https://img/one-b.png"},
		{ChannelID: "c2", ChannelName: "Two"},
	}

	got := KeyedOverlap(a, b, ChannelKey)
	if got.Ratio != 50 {
		t.Errorf("Ratio = %v, want 50", got.Ratio)
	}
	if len(got.Common) != 1 {
		t.Fatalf("Expected 1 common record, got %d", len(got.Common))
	}
	if got.Common[0] != a[0] {
		t.Errorf("Expected the first input's record %+v, got %+v", a[0], got.Common[0])
	}
}

func TestKeyedOverlap_LastRecordPerKey(t *testing.T) {
	a := []models.ChannelMembership{
		{ChannelID: "c1", ChannelName: "first"},
		{ChannelID: "c2", ChannelName: "two"},
		{ChannelID: "c3", ChannelName: "absent"},
		{ChannelID: "c1", ChannelName: "second"},
		{ChannelID: "c3", ChannelName: "absent again"},
	}
	b := []models.ChannelMembership{{ChannelID: "c1"}, {ChannelID: "c2"}}

	got := KeyedOverlap(a, b, ChannelKey)
	if math.Abs(got.Ratio-100*2.0/3.0) > 1e-9 {
		t.Errorf("Ratio = %v, want %v", got.Ratio, 100*2.0/3.0)
	}
	want := []models.ChannelMembership{
		{ChannelID: "c1", ChannelName: "second"},
		{ChannelID: "c2", ChannelName: "two"},
	}
	if !reflect.DeepEqual(got.Common, want) {
		t.Errorf("Common = %+v, want %+v", got.Common, want)
	}
}

func TestKeyedOverlap_EmptyInput(t *testing.T) {
	full := []models.ChannelMembership{{ChannelID: "c1"}}

	for _, pair := range [][2][]models.ChannelMembership{{nil, full}, {full, nil}, {nil, nil}} {
		got := KeyedOverlap(pair[0], pair[1], ChannelKey)
		if got.Ratio != 0 || got.Common == nil || len(got.Common) != 0 {
			t.Errorf("Expected {0, []}, got %+v", got)
		}
	}
}

// randomSet draws up to n values from a small alphabet so overlaps are common.
func randomSet(r *rand.Rand, n int) []string {
	alphabet := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	out := make([]string, r.Intn(n+1))
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return out
}

func distinct(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func TestScalarOverlap_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		a := randomSet(r, 10)
		b := randomSet(r, 10)
		got := ScalarOverlap(a, b)

		if len(a) == 0 || len(b) == 0 {
			if got.Ratio != 0 || len(got.Common) != 0 {
				t.Fatalf("Empty input %v / %v gave %+v", a, b, got)
			}
			continue
		}

		if got.Ratio < 0 || got.Ratio > 100 {
			t.Fatalf("Ratio %v out of range for %v / %v", got.Ratio, a, b)
		}

		setA, setB := distinct(a), distinct(b)
		equal := reflect.DeepEqual(setA, setB)
		if (got.Ratio == 100) != equal {
			t.Fatalf("Ratio 100 must hold iff sets are equal: %v / %v gave %v", a, b, got.Ratio)
		}

		swapped := ScalarOverlap(b, a)
		if swapped.Ratio != got.Ratio {
			t.Fatalf("Ratio not symmetric: %v vs %v", got.Ratio, swapped.Ratio)
		}

		for _, c := range got.Common {
			if _, ok := setB[c]; !ok {
				t.Fatalf("Common value %q missing from second input", c)
			}
		}
		if len(distinct(got.Common)) != len(got.Common) {
			t.Fatalf("Common contains duplicates: %v", got.Common)
		}
	}
}

func TestNormalizers(t *testing.T) {
	s := func(v string) *string { return &v }

	nfts := []models.NFTAsset{
		{NFTData: []models.NFTToken{{ExternalData: &models.NFTExternalData{Image: s("ipfs://1")}}, {ExternalData: &models.NFTExternalData{Image: s("ipfs://ignored")}}}},
		{NFTData: []models.NFTToken{{ExternalData: nil}}},
		{NFTData: nil},
		{NFTData: []models.NFTToken{{ExternalData: &models.NFTExternalData{Image: s("")}}}},
	}
	if got := NFTImages(nfts); !reflect.DeepEqual(got, []string{"ipfs://1"}) {
		t.Errorf("NFTImages = %v", got)
	}

	tokens := []models.TokenBalance{
		{ContractTickerSymbol: s("USDC")},
		{ContractTickerSymbol: nil},
		{ContractTickerSymbol: s("")},
		{ContractTickerSymbol: s("WETH")},
	}
	if got := TokenTickers(tokens); !reflect.DeepEqual(got, []string{"USDC", "WETH"}) {
		t.Errorf("TokenTickers = %v", got)
	}

	followings := []models.Following{
		{FollowingAddress: &models.FollowingAddress{Socials: []models.LinkedSocial{{ProfileName: s("alice")}, {ProfileName: s("alice2")}}}},
		{FollowingAddress: nil},
		{FollowingAddress: &models.FollowingAddress{Socials: nil}},
		{FollowingAddress: &models.FollowingAddress{Socials: []models.LinkedSocial{{ProfileName: nil}}}},
	}
	if got := FollowingNames(followings); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("FollowingNames = %v", got)
	}

	channels := []models.ChannelParticipant{
		{ChannelID: s("base"), ChannelName: s("Base"), Channel: &models.ChannelInfo{ImageURL: s("https://img/base")}},
		{ChannelID: nil, ChannelName: s("orphan")},
		{ChannelID: s("dev"), Channel: nil},
	}
	want := []models.ChannelMembership{
		{ChannelID: "base", ChannelName: "Base", ImageURL: "https://img/base"},
		{ChannelID: "dev"},
	}
	if got := ChannelMemberships(channels); !reflect.DeepEqual(got, want) {
		t.Errorf("ChannelMemberships = %+v, want %+v", got, want)
	}

	if got := NFTImages(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected non-nil empty slice for nil input, got %#v", got)
	}
}
