/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Media and project files are frequently kept on network shares. This package wraps
os.Stat, os.Open and os.WriteFile with retry logic for ESTALE (stale file handle)
errors, which are transient on NFS mounts.

# Usage

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer file.Close()

	err = filesystem.WriteFileWithRetry(projectPath, content, filesystem.DefaultRetryConfig())

# Retry Behavior

Defaults: 3 retries, 50ms initial backoff doubling up to 500ms. Only ESTALE
triggers a retry; every other error (including "not exist") is returned
immediately and unchanged, so callers can still use errors.Is(err, fs.ErrNotExist).

# Metrics

When an Observer is registered with SetObserver, every operation reports its
duration and every stale handle, retry, recovery and final failure.
*/
package filesystem
