package grpc

import (
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// StreamInterceptor logs the outcome and duration of every call.
func StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		log.Printf("gRPC call: %s finished with %s in %s", info.FullMethod, status.Code(err), time.Since(start))
		return err
	}
}
