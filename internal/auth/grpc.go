package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// SessionFromMD extracts the Bearer session token from gRPC metadata and decodes it.
func SessionFromMD(ctx context.Context, codec *SessionCodec) (Session, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Session{}, errors.New("missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return Session{}, errors.New("missing authorization")
	}
	parts := strings.SplitN(vals[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Session{}, errors.New("invalid authorization header")
	}
	return codec.Decode(strings.TrimSpace(parts[1]))
}

// RequireRole returns the session in ctx when it carries one of roles.
func RequireRole(ctx context.Context, roles ...Role) (Session, error) {
	s := FromContext(ctx)
	if !s.LoggedIn {
		return Session{}, status.Error(codes.Unauthenticated, "missing session")
	}
	if !s.HasRole(roles...) {
		return Session{}, status.Errorf(codes.PermissionDenied, "role %q may not perform this action", s.Role)
	}
	return s, nil
}

type methodGuard struct {
	codec *SessionCodec
	roles []Role
	allow map[string]struct{}
}

func newMethodGuard(codec *SessionCodec, roles []Role, allowUnauthenticated []string) *methodGuard {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return &methodGuard{codec: codec, roles: roles, allow: allow}
}

func (g *methodGuard) authorize(ctx context.Context, method string) (context.Context, error) {
	if _, ok := g.allow[method]; ok {
		return ctx, nil
	}
	s, err := SessionFromMD(ctx, g.codec)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
	}
	ctx = WithSession(ctx, s)
	if _, err := RequireRole(ctx, g.roles...); err != nil {
		return nil, err
	}
	return ctx, nil
}

// NewUnaryAuthInterceptor admits unary calls carrying a session with one of
// roles. Methods in allowUnauthenticated (health checks) bypass the check.
func NewUnaryAuthInterceptor(codec *SessionCodec, roles []Role, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	g := newMethodGuard(codec, roles, allowUnauthenticated)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := g.authorize(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// NewStreamAuthInterceptor is the streaming counterpart of NewUnaryAuthInterceptor.
func NewStreamAuthInterceptor(codec *SessionCodec, roles []Role, allowUnauthenticated ...string) grpc.StreamServerInterceptor {
	g := newMethodGuard(codec, roles, allowUnauthenticated)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := g.authorize(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &sessionStream{ServerStream: ss, ctx: ctx})
	}
}

type sessionStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *sessionStream) Context() context.Context { return s.ctx }
