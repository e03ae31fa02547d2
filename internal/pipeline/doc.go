// Package pipeline runs one Greatest Hits generation.
//
// [Run] resolves the configured source playlists, reads every
// podcast:remoteItem they contain, counts each (feedGuid, itemGuid) pair and
// writes the pairs played at least min_plays times, grouped by play count,
// to the output playlist.
//
// Stages run strictly in sequence: resolve → read → count → group → report
// → write → metrics. Sources that cannot be read are reported and skipped.
// A run that finds no songs at all returns [errors.ErrNoSongs] without
// touching the output. Failures while writing the output are fatal.
//
// # Usage
//
//	res, err := pipeline.Run(ctx, cfg,
//	    pipeline.WithConsole(console),
//	    pipeline.WithLogger(logger),
//	)
//	if errors.Is(err, errors.ErrNoSongs) {
//	    return nil
//	}
package pipeline
