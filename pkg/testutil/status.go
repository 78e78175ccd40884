package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

func statusToString(t *testing.T, err error) string {
	if err == nil {
		return "<nil>"
	}
	data, marshalErr := protojson.Marshal(status.Convert(err).Proto())
	require.NoError(t, marshalErr)
	return string(data)
}

// RequireEqualStatus asserts that two errors carry the same gRPC
// status code, message and details. Comparing the errors directly is
// unreliable, as the Protobuf messages backing them may contain
// internal state that differs.
func RequireEqualStatus(t *testing.T, want, got error) {
	t.Helper()
	if !proto.Equal(status.Convert(want).Proto(), status.Convert(got).Proto()) {
		require.FailNowf(t, "Not equal", "Want:\n\n%s\n\nGot:\n\n%s", statusToString(t, want), statusToString(t, got))
	}
}

// RequirePrefixedStatus asserts that two errors carry the same gRPC
// status, except that the message of the latter may have additional
// trailing characters. This can be used for messages containing
// values that are hard to predict, such as checksums.
func RequirePrefixedStatus(t *testing.T, want, got error) {
	t.Helper()
	wantProto := status.Convert(want).Proto()
	gotProto := status.Convert(got).Proto()
	require.Truef(t, strings.HasPrefix(gotProto.GetMessage(), wantProto.GetMessage()), "Want message of status\n%s\nto have prefix\n%s", statusToString(t, got), wantProto.GetMessage())
	gotProto.Message = wantProto.GetMessage()
	require.Truef(t, proto.Equal(wantProto, gotProto), "Want:\n\n%s\n\nGot:\n\n%s", statusToString(t, want), statusToString(t, got))
}

type eqStatusMatcher struct {
	t    *testing.T
	want error
}

// EqStatus is a gomock matcher for gRPC status equality.
func EqStatus(t *testing.T, want error) gomock.Matcher {
	return &eqStatusMatcher{
		t:    t,
		want: want,
	}
}

func (m *eqStatusMatcher) Matches(got interface{}) bool {
	gotError, ok := got.(error)
	if !ok {
		return false
	}
	return proto.Equal(status.Convert(m.want).Proto(), status.Convert(gotError).Proto())
}

func (m *eqStatusMatcher) String() string {
	return fmt.Sprintf("is status equal to %s", statusToString(m.t, m.want))
}
