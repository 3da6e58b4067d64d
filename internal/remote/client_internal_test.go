package remote

import "testing"

func TestNewClient_DefaultClientHasTimeout(t *testing.T) {
	t.Parallel()

	client := NewClient("http://localhost:5002/api", nil)

	if client.httpc.Timeout == 0 {
		t.Error("expected the fallback http client to carry a timeout")
	}
}
