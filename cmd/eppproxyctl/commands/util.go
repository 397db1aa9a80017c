package commands

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"

	"github.com/eppproxy/eppproxy/pkg/eppgrpc"
)

func dialServer() (*grpc.ClientConn, error) {
	if registryID == "" {
		return nil, fmt.Errorf("--registry is required")
	}
	cc, err := eppgrpc.Dial(serverAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverAddr, err)
	}
	return cc, nil
}

func invokeWithTimeout(cc *grpc.ClientConn, method string, payload any) (*eppgrpc.Envelope, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return eppgrpc.Invoke(ctx, cc, method, eppgrpc.Selector{RegistryID: registryID}, payload)
}
