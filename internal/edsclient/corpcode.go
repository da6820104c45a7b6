// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package edsclient

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
)

// corpCodeResult is the root element of the single XML document the
// corp-code archive ZIP contains.
type corpCodeResult struct {
	XMLName xml.Name        `xml:"result"`
	Status  string          `xml:"status"`
	Message string          `xml:"message"`
	List    []corpCodeEntry `xml:"list"`
}

type corpCodeEntry struct {
	CorpCode    string `xml:"corp_code"`
	CorpName    string `xml:"corp_name"`
	CorpEngName string `xml:"corp_eng_name"`
	StockCode   string `xml:"stock_code"`
	ModifyDate  string `xml:"modify_date"`
}

// FetchCorpCodeArchive requests the corp-code dump ZIP and returns the
// unread response body as an io.ReadCloser; nothing is buffered here. The
// caller must close it. ParseCorpCodeArchive reads the whole body into
// memory before unzipping it.
func (c *Client) FetchCorpCodeArchive(ctx context.Context) (io.ReadCloser, error) {
	if c.mock {
		return nil, apperr.ExternalSource("corp-code archive unavailable in mock mode", nil)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("crtfc_key", c.apiKey).
		SetDoNotParseResponse(true).
		Get(c.url(pathCorpCodeArchive))
	if err != nil {
		return nil, apperr.ExternalSource(fmt.Sprintf("fetching corp-code archive (key=%s)", maskKey(c.apiKey)), err)
	}

	if resp.StatusCode() >= 300 {
		resp.RawBody().Close()
		return nil, apperr.ExternalSource(fmt.Sprintf("corp-code archive returned status %d", resp.StatusCode()), nil)
	}

	return resp.RawBody(), nil
}

// ParseCorpCodeArchive reads the ZIP body FetchCorpCodeArchive returns and
// decodes its single XML document into directory entries, preserving
// modify_date verbatim in YYYYMMDD form per spec.md §6.
func ParseCorpCodeArchive(r io.Reader) ([]domain.CorpCodeDirectoryEntry, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.ExternalSource("reading corp-code archive body", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, apperr.ExternalSource("corp-code archive is not a valid ZIP", err)
	}

	if len(zr.File) == 0 {
		return nil, apperr.ExternalSource("corp-code archive contains no files", nil)
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, apperr.ExternalSource("opening corp-code archive XML entry", err)
	}
	defer f.Close()

	var result corpCodeResult
	if err := xml.NewDecoder(f).Decode(&result); err != nil {
		return nil, apperr.ExternalSource("decoding corp-code archive XML", err)
	}

	entries := make([]domain.CorpCodeDirectoryEntry, 0, len(result.List))
	for _, e := range result.List {
		entries = append(entries, domain.CorpCodeDirectoryEntry{
			CorpCode:    e.CorpCode,
			CorpName:    e.CorpName,
			CorpNameEng: e.CorpEngName,
			StockCode:   e.StockCode,
			ModifyDate:  e.ModifyDate,
		})
	}

	return entries, nil
}
