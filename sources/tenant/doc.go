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

// Package tenant adapts a tenant data backend (notifications, advisory mail,
// message feeds) into items the retriever can merge.
//
// The backend answers natural-language questions with loosely structured
// markdown or HTML. ParseResponse tolerantly extracts up to ten titled items
// from such an answer. HTTPAsker connects lazily and gives up for the rest of
// the process after a failed connection probe.
package tenant
