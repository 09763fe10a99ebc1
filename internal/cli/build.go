package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/devicegraph"
	"github.com/aretw0/devicegraph/pkg/adapters/file"
	"github.com/aretw0/devicegraph/pkg/adapters/redis"
	"github.com/aretw0/devicegraph/pkg/model"
	"github.com/aretw0/devicegraph/pkg/persistence/middleware"
	"github.com/aretw0/devicegraph/pkg/ports"
)

// BuildOptions configure the build command.
type BuildOptions struct {
	Options
	// Out is the artifact directory, used when no Redis address is set.
	Out string
	// Format is the artifact codec name.
	Format string
	// Redis, when set, stores artifacts in Redis instead of Out.
	Redis string
	// RedisPrefix overrides the Redis key prefix.
	RedisPrefix string
	// Native keeps parameters in their native types instead of strings.
	Native bool
	// Key, when set, seals every artifact with AES-256-GCM.
	Key []byte
}

// Build compiles the architecture for each selected rank and writes one
// artifact per rank. It returns the artifact names in rank order.
func Build(ctx context.Context, opts BuildOptions, logger *slog.Logger) ([]string, error) {
	ranks, err := ranksOf(opts.Rank, opts.Ranks)
	if err != nil {
		return nil, err
	}
	codec, err := model.CodecFor(opts.Format)
	if err != nil {
		return nil, err
	}
	project, err := Open(opts.Options)
	if err != nil {
		return nil, err
	}

	store, closeStore := openStore(opts, codec)
	defer closeStore()
	if len(opts.Key) > 0 {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: opts.Key})
		if err != nil {
			return nil, err
		}
		store = middleware.Wrap(store, mw)
	}

	compiler := devicegraph.NewCompiler(
		devicegraph.WithStore(store),
		devicegraph.WithCodec(codec),
		devicegraph.WithLogger(logger),
		devicegraph.WithProgramOptions(project.ProgramOptions()),
		devicegraph.WithStringify(!opts.Native),
	)

	names := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		if err := ctx.Err(); err != nil {
			return names, err
		}
		g, err := project.Graph()
		if err != nil {
			return names, err
		}
		name, err := compiler.Write(ctx, g, project.Name, rank, opts.Ranks)
		if err != nil {
			return names, fmt.Errorf("rank %d: %w", rank, err)
		}
		g.Dealloc()
		names = append(names, name)
	}
	return names, nil
}

func openStore(opts BuildOptions, codec model.Codec) (ports.ArtifactStore, func()) {
	if opts.Redis != "" {
		var ropts []redis.Option
		if opts.RedisPrefix != "" {
			ropts = append(ropts, redis.WithPrefix(opts.RedisPrefix))
		}
		s := redis.New(opts.Redis, "", 0, ropts...)
		return s, func() { _ = s.Close() }
	}
	return file.New(opts.Out, file.WithExtension("."+codec.Name())), func() {}
}

// ReadKey reads an encryption key file holding either 32 raw bytes or their
// hex encoding.
func ReadKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	if text := bytes.TrimSpace(data); len(text) == hex.EncodedLen(32) {
		key := make([]byte, 32)
		if _, err := hex.Decode(key, text); err == nil {
			return key, nil
		}
	}
	return data, nil
}
