package grpc

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/marcaudefroy/adapter-mock/pkg/descriptors"
	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Handler returns a grpc.StreamHandler that answers unary calls with adapter.
// The method must be known to descriptorRegistry so that the request can be
// decoded and the response encoded. The request handed to the adapter is a
// mocks.Request whose Path is the full method, Base the service, Method the
// method name and Body the request message in its JSON form.
func Handler(adapter mocks.Adapter, descriptorRegistry descriptors.Registry) grpc.StreamHandler {
	return func(srv any, stream grpc.ServerStream) error {
		fullMethod, _ := grpc.MethodFromServerStream(stream)
		log.Printf("gRPC call: %s", fullMethod)

		method, ok := descriptorRegistry.MethodDescriptor(fullMethod)
		if !ok {
			return status.Errorf(codes.Unimplemented, "method %s not registered", fullMethod)
		}

		in := dynamicpb.NewMessage(method.Input())
		if err := stream.RecvMsg(in); err != nil && !errors.Is(err, io.EOF) {
			return status.Errorf(codes.Internal, "receive: %v", err)
		}
		raw, err := protojson.Marshal(in)
		if err != nil {
			return status.Errorf(codes.Internal, "message→json: %v", err)
		}
		var body any
		if err := json.Unmarshal(raw, &body); err != nil {
			return status.Errorf(codes.Internal, "message→json: %v", err)
		}

		req := mocks.Request{
			Method:  string(method.Name()),
			Base:    string(method.Parent().FullName()),
			Path:    fullMethod,
			URL:     fullMethod,
			Headers: headersFromContext(stream),
			Body:    body,
		}

		resp, err := adapter(stream.Context(), req)
		if err != nil {
			return status.FromContextError(err).Err()
		}
		if resp == nil {
			return status.Errorf(codes.Unimplemented, "no mock rule matched %s", fullMethod)
		}

		if len(resp.Meta.Headers) > 0 {
			if err := stream.SendHeader(metadata.New(resp.Meta.Headers)); err != nil {
				return err
			}
		}

		if code := Code(resp); code != codes.OK {
			return status.Error(code, errorMessage(resp))
		}

		out := dynamicpb.NewMessage(method.Output())
		if resp.Data != nil {
			raw, err := json.Marshal(resp.Data)
			if err != nil {
				return status.Errorf(codes.Internal, "data→json: %v", err)
			}
			if err := protojson.Unmarshal(raw, out); err != nil {
				log.Printf("Mock JSON payload: %s", raw)
				return status.Errorf(codes.Internal, "json→message: %v", err)
			}
		}
		return stream.SendMsg(out)
	}
}

func headersFromContext(stream grpc.ServerStream) map[string]string {
	md, ok := metadata.FromIncomingContext(stream.Context())
	if !ok || md.Len() == 0 {
		return nil
	}
	headers := make(map[string]string, md.Len())
	for k, v := range md {
		if len(v) > 0 && !strings.HasPrefix(k, ":") {
			headers[k] = v[0]
		}
	}
	return headers
}

// errorMessage prefers a string payload over the generic status text.
func errorMessage(resp *mocks.Response) string {
	if s, ok := resp.Data.(string); ok && s != "" {
		return s
	}
	return resp.StatusText
}
