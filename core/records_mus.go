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

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// UpdateRecordMUS is the MUS serializer for UpdateRecord.
// Field order is part of the storage format; append new fields at the end.
var UpdateRecordMUS = updateRecordMUS{}

type updateRecordMUS struct{}

func (s updateRecordMUS) fields(v *UpdateRecord) []*string {
	return []*string{
		&v.ID,
		&v.Title,
		&v.Summary,
		&v.Impact,
		&v.ActionRequired,
		(*string)(&v.Severity),
		&v.Product,
		&v.ProductFamily,
		(*string)(&v.Source),
		&v.SourceRef,
		&v.SourceURL,
		&v.Date,
		&v.Deadline,
	}
}

func (s updateRecordMUS) Marshal(v UpdateRecord, bs []byte) (n int) {
	for _, f := range s.fields(&v) {
		n += ord.String.Marshal(*f, bs[n:])
	}
	return
}

func (s updateRecordMUS) Unmarshal(bs []byte) (v UpdateRecord, n int, err error) {
	var n1 int
	for _, f := range s.fields(&v) {
		*f, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s updateRecordMUS) Size(v UpdateRecord) (size int) {
	for _, f := range s.fields(&v) {
		size += ord.String.Size(*f)
	}
	return
}

func (s updateRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range 13 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// CheckpointMUS is the MUS serializer for Checkpoint.
// UpdatedAt is stored as Unix microseconds and decoded in UTC.
var CheckpointMUS = checkpointMUS{}

type checkpointMUS struct{}

func (s checkpointMUS) Marshal(v Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.Source, bs)
	n += ord.String.Marshal(v.Digest, bs[n:])
	n += varint.Int.Marshal(v.Records, bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (s checkpointMUS) Unmarshal(bs []byte) (v Checkpoint, n int, err error) {
	v.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Digest, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Records, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s checkpointMUS) Size(v Checkpoint) (size int) {
	size = ord.String.Size(v.Source)
	size += ord.String.Size(v.Digest)
	size += varint.Int.Size(v.Records)
	return size + varint.Int64.Size(v.UpdatedAt.UnixMicro())
}

func (s checkpointMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
