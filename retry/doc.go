// Copyright 2025 Poiesic Systems
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

// Package retry provides bounded exponential backoff for calls to external services.
//
// Callers wrap errors that will not improve on retry (bad requests, parse
// failures) with Permanent so RetryWithBackoff returns immediately:
//
//	err := retry.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return err
//	    }
//	    if resp.StatusCode < 500 && resp.StatusCode != http.StatusOK {
//	        return retry.Permanent(fmt.Errorf("status %d", resp.StatusCode))
//	    }
//	    return nil
//	}, 3, time.Second)
package retry
