package utils

// KronSparse computes the Kronecker product of two sparse matrices,
// building the CSR arrays directly with the exact nonzero count
// preallocated. Repeated reallocation during tensor composition is the
// dominant cost in higher dimensions, so the dense form is never
// materialized.
func KronSparse(A, B CSR) (R CSR) {
	var (
		nrA, ncA = A.Dims()
		nrB, ncB = B.Dims()
		am       = A.RawMatrix()
		bm       = B.RawMatrix()
		nnz      = A.NNZ() * B.NNZ()
		ia       = make([]int, 1, nrA*nrB+1)
		ja       = make([]int, 0, nnz)
		data     = make([]float64, 0, nnz)
	)
	for i := 0; i < nrA; i++ {
		for k := 0; k < nrB; k++ {
			// Row i*nrB+k: pairs of row i of A with row k of B.
			for jj := am.Indptr[i]; jj < am.Indptr[i+1]; jj++ {
				va := am.Data[jj]
				colA := am.Ind[jj]
				for ll := bm.Indptr[k]; ll < bm.Indptr[k+1]; ll++ {
					ja = append(ja, colA*ncB+bm.Ind[ll])
					data = append(data, va*bm.Data[ll])
				}
			}
			ia = append(ia, len(ja))
		}
	}
	R = NewCSR(nrA*nrB, ncA*ncB, ia, ja, data)
	return
}

// KronSparseAll folds KronSparse over a list of factors, left to right,
// so the result indexes the first factor slowest.
func KronSparseAll(Ms ...CSR) (R CSR) {
	R = Ms[0]
	for _, M := range Ms[1:] {
		R = KronSparse(R, M)
	}
	return
}
