// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package gallery turns a directory of images and a metadata file into the data
rendered on the gallery page.

Three steps run on every page request and nothing is cached between them:

  - [Loader] merges the directory listing with the metadata entries into a
    slice of [Photo]. It fails open: any error yields an empty gallery.
  - [Aggregate] collects the distinct tags of those photos into a [TagSet]. It
    fails soft: on error the tags accumulated so far are kept.
  - [Group] selects, for every tag, the first photos carrying it.
*/
package gallery
