package query

// AddLocalInfo overlays the install-side fields of a local record onto a
// sync record and attaches the local record as companion. The sync record
// is the base because it carries the richer trust metadata (checksums,
// signature), which local databases drop.
func (p *PackageInfo) AddLocalInfo(local *PackageInfo) *PackageInfo {
	out := *p
	out.InstallDate = local.InstallDate
	out.InstallReason = local.InstallReason
	out.InstallScript = local.InstallScript
	out.LocalInfo = trimCompanion(local)
	out.SyncInfo = nil
	return &out
}

// AddSyncInfo attaches a sync record as companion without overlaying any
// field. Used when the local record disagrees with the repository (stale
// version or different packager): the discrepancy is surfaced to the
// consumer instead of being merged silently.
func (p *PackageInfo) AddSyncInfo(sync *PackageInfo) *PackageInfo {
	out := *p
	out.SyncInfo = trimCompanion(sync)
	out.LocalInfo = nil
	return &out
}

// Reconcile merges a record with its counterpart from the complementary
// database. base is the record the query found first; other comes from the
// other side (other side local when baseIsSync, and vice versa).
//
// Policy: when packager and version both match, the sync record wins as
// base and the local install fields are overlaid onto it. Any mismatch
// keeps the local record authoritative with the sync record attached
// untouched. Reconciliation never mutates its inputs.
func Reconcile(base, other *PackageInfo, baseIsSync bool) *PackageInfo {
	if other == nil {
		return base
	}
	if baseIsSync {
		return base.AddLocalInfo(other)
	}
	local, sync := base, other
	if local.Packager == sync.Packager && local.Version == sync.Version {
		return sync.AddLocalInfo(local)
	}
	return local.AddSyncInfo(sync)
}

// trimCompanion copies a record for use as a companion, dropping its own
// companion slots. Nesting stops at one level.
func trimCompanion(p *PackageInfo) *PackageInfo {
	out := *p
	out.LocalInfo = nil
	out.SyncInfo = nil
	return &out
}
