package commands

import "testing"

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		args    []string
		want    int64
		wantErr string
	}{
		{args: []string{"5"}, want: 5},
		{args: []string{"#12"}, want: 12},
		{args: []string{" 3 "}, want: 3},
		{args: nil, wantErr: "task id required"},
		{args: []string{"a1"}, wantErr: "invalid task id: a1"},
		{args: []string{"-1"}, wantErr: "invalid task id: -1"},
		{args: []string{"1", "2"}, wantErr: "unexpected argument: 2"},
	}
	for _, tt := range tests {
		got, err := parseTaskID(tt.args)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("%q: expected error %q, got %v", tt.args, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.args, tt.want, got)
		}
	}
}
