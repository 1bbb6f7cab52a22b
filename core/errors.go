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


package core

import "errors"

// Validation errors. These are surfaced to callers immediately and never retried.
var (
	// ErrEmptyContent indicates a source document or transcript produced no text.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrUnsupportedFileType indicates an uploaded file is not a PDF.
	ErrUnsupportedFileType = errors.New("only PDF files are supported")

	// ErrInvalidVideoURL indicates a video URL that no accepted form matches.
	ErrInvalidVideoURL = errors.New("invalid video URL")

	// ErrTranscriptUnavailable indicates a video has no retrievable transcript.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")

	// ErrConversationNotFound indicates an unknown or absent conversation ID.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyQuestion indicates a chat turn with no question text.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)
