// Copyright (c) 2023 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/capaio/solidity-crowdfunding
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
)

// ShutdownTimeout is the maximum duration to wait for in-flight requests when the server
// is stopped.
const ShutdownTimeout = 5 * time.Second

// ListenAndServe serves the API of the node at addr until ctx is canceled, then shuts the
// server down gracefully. It returns nil if the server was stopped by canceling ctx.
func ListenAndServe(ctx context.Context, n crowdfund.NodeAPI, addr string) error {
	h := NewHandler(n)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		h.Logger.Infof("Serving API at %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "serving api")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down api server")
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving api")
	}
	h.Logger.Info("API server stopped")
	return nil
}
