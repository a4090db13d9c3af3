package controllers

// Common request/response types for HTTP controllers

// seekToReq mirrors the ioctl SEEKTO argument.
type seekToReq struct {
	WriteCmd       *int `json:"write_cmd"`
	WriteCmdOffset *int `json:"write_cmd_offset"`
}

// commandResp is one stored command. Text is the command with invalid
// UTF-8 replaced; Data carries the exact bytes.
type commandResp struct {
	Index  int    `json:"index"`
	Offset int64  `json:"offset"`
	Size   int    `json:"size"`
	ID     string `json:"id"`
	TsMs   int64  `json:"ts_ms"`
	Text   string `json:"text"`
	Data   []byte `json:"data"`
}

// archiveResp is one archived eviction.
type archiveResp struct {
	Seq         uint64 `json:"seq"`
	ID          string `json:"id"`
	EvictedAtMs int64  `json:"evicted_at_ms"`
	Text        string `json:"text"`
	Data        []byte `json:"data"`
}

// statsResp reports device counters.
type statsResp struct {
	Capacity    int    `json:"capacity"`
	Count       int    `json:"count"`
	TotalLength int64  `json:"total_length"`
	Pending     int    `json:"pending"`
	Commits     uint64 `json:"commits"`
	Evictions   uint64 `json:"evictions"`
	// Archive is omitted when the archive is disabled.
	Archive *archiveStatsResp `json:"archive,omitempty"`
}

// archiveStatsResp reports the archive and its store counters.
type archiveStatsResp struct {
	Entries      uint64 `json:"entries"`
	BatchCommits uint64 `json:"batch_commits"`
	CommitOps    uint64 `json:"commit_ops"`
	CommitBytes  uint64 `json:"commit_bytes"`
	Reads        uint64 `json:"reads"`
	ReadBytes    uint64 `json:"read_bytes"`
}
