package grpc

import (
	"github.com/marcaudefroy/adapter-mock/pkg/descriptors"
	"github.com/marcaudefroy/adapter-mock/pkg/history"
	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
	"google.golang.org/grpc"
)

// NewServer creates a grpc.Server whose every method, registered or not, is
// answered by Handler. When historyRegistry is not nil the adapter calls are
// recorded into it.
func NewServer(
	adapter mocks.Adapter,
	descriptorRegistry descriptors.Registry,
	historyRegistry history.RegistryWriter,
) *grpc.Server {
	if historyRegistry != nil {
		adapter = history.Record(adapter, historyRegistry)
	}
	return grpc.NewServer(
		grpc.UnknownServiceHandler(Handler(adapter, descriptorRegistry)),
		grpc.ChainStreamInterceptor(StreamInterceptor()),
	)
}
