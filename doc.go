// Package resfs resolves location strings to nodes of a read-only virtual
// file tree and is the entry point for loading Android-style resource
// directories from archives or from disk.
//
// Two storage backends share one traversal model (see [vfs.Node]):
//   - Archives (jar, apk, aar, zip), indexed once into a sorted entry list
//   - Native directories, confined with os.Root
//
// Archives may also live behind an HTTP server that honors range requests;
// only the central directory and the entries actually read are fetched, in
// cached blocks (see [WithBlockOptions]).
//
// # Quick Start
//
// Resolve a resource root and load it:
//
//	r, err := resfs.NewResolver()
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	root, err := r.Resolve(ctx, "archive:app.apk!/res")
//	if err != nil {
//	    return err
//	}
//	index := res.NewIndex()
//	loader := res.NewPackageLoader(res.NewResourcePath("com.example", root), index)
//	if err := loader.Load(); err != nil {
//	    return err
//	}
//
// # Location Strings
//
//	archive:<archive-path>!/<entry-path>
//	archive:https://host/app.apk!/<entry-path>
//	file:<dir>
package resfs
