package binding

import "testing"

func TestInterpolate(t *testing.T) {
	cases := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{
			name: "single key",
			text: "Certificate ID: ${id}",
			vars: map[string]string{"id": "AIK24B21A42C7"},
			want: "Certificate ID: AIK24B21A42C7",
		},
		{
			name: "url template",
			text: "https://example.com/certificates/${id}/",
			vars: map[string]string{"id": "AIK24B21"},
			want: "https://example.com/certificates/AIK24B21/",
		},
		{
			name: "unknown key keeps placeholder",
			text: "hello ${missing}",
			vars: map[string]string{"id": "x"},
			want: "hello ${missing}",
		},
		{
			name: "nil vars",
			text: "plain ${id}",
			vars: nil,
			want: "plain ${id}",
		},
		{
			name: "repeated key",
			text: "${id}-${id}",
			vars: map[string]string{"id": "A"},
			want: "A-A",
		},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.text, tc.vars); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
