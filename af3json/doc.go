package af3json

//Package af3json builds input jobs for AlphaFold 3 from goChem-style
//molecules. Protein chains become "protein" entities with their one-letter
//sequences, other residues (except water) become "ligand" entities with their
//CCD codes. Chains with identical sequences, or identical sets of ligands,
//are grouped in one entity.
//The JSON produced uses the "alphafold3" dialect, version 2.
