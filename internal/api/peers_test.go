package api

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPeerList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PeerList
	}{
		{
			name: "json array",
			raw:  `["AAPL", "MSFT", "GOOG"]`,
			want: PeerList{"AAPL", "MSFT", "GOOG"},
		},
		{
			name: "stringified bracketed list",
			raw:  `"['AAPL', 'MSFT']"`,
			want: PeerList{"AAPL", "MSFT"},
		},
		{
			name: "stringified list without quotes",
			raw:  `"[AAPL, MSFT, GOOG]"`,
			want: PeerList{"AAPL", "MSFT", "GOOG"},
		},
		{
			name: "stringified list with double quotes",
			raw:  `"[\"AAPL\", \"MSFT\"]"`,
			want: PeerList{"AAPL", "MSFT"},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: PeerList{},
		},
		{
			name: "empty string",
			raw:  `""`,
			want: nil,
		},
		{
			name: "empty brackets",
			raw:  `"[]"`,
			want: nil,
		},
		{
			name: "number yields empty",
			raw:  `42`,
			want: nil,
		},
		{
			name: "object yields empty",
			raw:  `{"peers": ["AAPL"]}`,
			want: nil,
		},
		{
			name: "null yields empty",
			raw:  `null`,
			want: nil,
		},
		{
			name: "whitespace around elements is trimmed",
			raw:  `"[ 'AAPL' ,  'MSFT' ]"`,
			want: PeerList{"AAPL", "MSFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got PeerList
			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("Unmarshal(%s) returned unexpected error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal(%s) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPeerList_Normalize_SelfExclusion(t *testing.T) {
	tests := []struct {
		name    string
		peers   PeerList
		exclude string
		want    []string
	}{
		{
			name:    "exact match excluded",
			peers:   PeerList{"TSLA", "FORD", "GM"},
			exclude: "TSLA",
			want:    []string{"FORD", "GM"},
		},
		{
			name:    "case-insensitive exclusion",
			peers:   PeerList{"tsla", "FORD"},
			exclude: "TSLA",
			want:    []string{"FORD"},
		},
		{
			name:    "all occurrences excluded",
			peers:   PeerList{"AAPL", "AAPL"},
			exclude: "AAPL",
			want:    []string{},
		},
		{
			name:    "lowercase exclude",
			peers:   PeerList{"AAPL", "MSFT"},
			exclude: "aapl",
			want:    []string{"MSFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.peers.Normalize(tt.exclude, 10)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q, 10) = %v, want %v", tt.exclude, got, tt.want)
			}
		})
	}
}

func TestPeerList_Normalize_Limit(t *testing.T) {
	peers := PeerList{"A", "B", "C", "D", "E", "F", "G", "H"}

	for _, limit := range []int{0, 1, 5, 6, 8, 100} {
		got := peers.Normalize("ZZZ", limit)
		if len(got) > limit {
			t.Errorf("Normalize limit %d returned %d elements", limit, len(got))
		}
	}

	// Order is preserved as received; no ranking
	got := peers.Normalize("ZZZ", 3)
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize preserving order = %v, want %v", got, want)
	}
}

func TestPeerList_Normalize_ExclusionDoesNotConsumeLimit(t *testing.T) {
	// The excluded symbol must not count against the limit
	peers := PeerList{"TSLA", "FORD", "GM", "TM"}
	got := peers.Normalize("TSLA", 3)
	want := []string{"FORD", "GM", "TM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}
