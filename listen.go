// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/photogallery/gallery/config"
)

var (
	errChmodSocket = errors.New("failed to change unix socket permissions")
	errChownSocket = errors.New("failed to change unix socket ownership")
)

// listen opens the configured Unix socket, or host:port when there is none.
func listen(ctx context.Context) (net.Listener, error) {
	basic := config.Global.Basic

	var lc net.ListenConfig

	if basic.UnixSocket != "" {
		listener, err := lc.Listen(ctx, "unix", basic.UnixSocket)
		if err != nil {
			return nil, fmt.Errorf("listening on unix socket %s: %w", basic.UnixSocket, err)
		}

		if err := prepareSocket(basic.UnixSocket, basic.UnixSocketUser, basic.UnixSocketGroup,
			basic.UnixSocketPermissions); err != nil {
			_ = listener.Close()

			return nil, err
		}

		log.Info().
			Str("socket", basic.UnixSocket).
			Msg("Listening on Unix domain socket")

		return listener, nil
	}

	listener, err := lc.Listen(ctx, "tcp", net.JoinHostPort(basic.Host, basic.Port))
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", net.JoinHostPort(basic.Host, basic.Port), err)
	}

	event := log.Info().Str("address", listener.Addr().String())

	// Port 0 picks a free port, so the URL is built from the bound address.
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		event = event.Str("url", fmt.Sprintf("http://localhost:%d/", addr.Port))
	}

	event.Msg("Listening")

	return listener, nil
}

// prepareSocket hands the socket at path to owner and group, then sets its mode.
// Empty owner or group values are left as they are.
func prepareSocket(path, owner, group string, mode os.FileMode) error {
	uid, err := resolveID(owner, lookupUserID)
	if err != nil {
		return err
	}

	gid, err := resolveID(group, lookupGroupID)
	if err != nil {
		return err
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("%w: %w", errChmodSocket, err)
	}

	return nil
}

func lookupUserID(name string) (string, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", err
	}

	return u.Uid, nil
}

func lookupGroupID(name string) (string, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return "", err
	}

	return g.Gid, nil
}

// resolveID turns a numeric id or an account name into an id for os.Chown.
// An empty value gives -1, which os.Chown ignores.
func resolveID(value string, lookup func(name string) (string, error)) (int, error) {
	if value == "" {
		return -1, nil
	}

	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	raw, err := lookup(value)
	if err != nil {
		return -1, fmt.Errorf("%w: %w", errChownSocket, err)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return -1, fmt.Errorf("%w: %q resolved to non-numeric id %q", errChownSocket, value, raw)
	}

	return id, nil
}
