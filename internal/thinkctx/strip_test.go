package thinkctx

import "testing"

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single block",
			input: "<think>T1</think> [call A]",
			want:  "[call A]",
		},
		{
			name:  "no block is trimmed only",
			input: "  plain answer \n",
			want:  "plain answer",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "multiple blocks are non-greedy",
			input: "<think>a</think>keep<think>b</think> tail",
			want:  "keep tail",
		},
		{
			name:  "block spans lines",
			input: "<think>line one\nline two\n</think>\nanswer",
			want:  "answer",
		},
		{
			name:  "block in the middle",
			input: "before <think>x</think> after",
			want:  "before  after",
		},
		{
			name:  "unclosed opening marker is kept",
			input: "answer <think>never closed",
			want:  "answer <think>never closed",
		},
		{
			name:  "complete block removed before unclosed one",
			input: "<think>a</think> mid <think>open",
			want:  "mid <think>open",
		},
		{
			name:  "stray closing marker is kept",
			input: "answer</think>",
			want:  "answer</think>",
		},
		{
			name:  "nested opening marker pairs with first close",
			input: "<think>a<think>b</think>c</think>d",
			want:  "c</think>d",
		},
		{
			name:  "empty block",
			input: "<think></think>x",
			want:  "x",
		},
		{
			name:  "only reasoning",
			input: "<think>everything</think>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripReasoning(tt.input); got != tt.want {
				t.Errorf("StripReasoning(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripReasoningIsStableOnCleanContent(t *testing.T) {
	inputs := []string{"[call A]", "multi\nline\ncontent", "a < think > b", "x"}
	for _, in := range inputs {
		once := StripReasoning(in)
		if once != in {
			t.Errorf("StripReasoning(%q) = %q, want unchanged", in, once)
		}
		if twice := StripReasoning(once); twice != once {
			t.Errorf("StripReasoning not stable for %q: %q then %q", in, once, twice)
		}
	}
}

func TestContainsReasoning(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"<think>a</think>b", true},
		{"text\n<think>\nmulti\n</think>", true},
		{"no markers", false},
		{"<think>unclosed", false},
		{"</think><think>", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsReasoning(tt.input); got != tt.want {
			t.Errorf("ContainsReasoning(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
