package compliance

import "testing"

func TestCorpus(t *testing.T) {
	RunCorpus(t, "testdata")
}
