// Package crossrank retrieves the documents most similar to a set of query
// documents across several independently loaded indices and ranks them by
// how consistently each index surfaces them.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, _ := crossrank.New(crossrank.WithK(5), crossrank.WithMeasure(distance.L2))
//
//	indices, _ := eng.LoadIndices(ctx, blobstore.NewLocalStore("./data"), []string{"*.arff"})
//	results, _ := eng.Run(ctx, indices, []model.DocumentKey{"sport/doc-17"})
//
//	for _, r := range results {
//	    for _, e := range r.Ranked() {
//	        fmt.Println(e.Document, e.Statistics.OccurrenceCount(), e.Statistics.AverageRank())
//	    }
//	}
//
// Cloud mode:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("indices/"))
//	indices, _ := eng.LoadIndices(ctx, store, nil)
//
// # Pipeline
//
// For every index the engine configures a distance metric on that index
// alone, then keeps the k nearest other documents of each query with a
// bounded max-heap. Once every index is done, the per-index lists of a query
// are merged into one ranking ordered by distance, and every candidate gets
// statistics: the number of indices that returned it, its average rank and
// its average distance.
//
// # Documents
//
// Each index file is an ARFF data set. The first attribute whose name
// contains "class" and the first whose name contains "document" identify a
// record as "<class>/<document>"; both are excluded from distances.
package crossrank
