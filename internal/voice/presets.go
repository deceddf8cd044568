/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package voice

// neutralPreset is the fallback for missing or unknown emotion labels.
var neutralPreset = Parameters{Stability: 0.5, SimilarityBoost: 0.75, Style: 0.0, UseSpeakerBoost: 1.0}

// emotionPresets hold the base parameter tuples per emotion label.
// Low stability reads as volatile delivery; high style exaggerates it.
var emotionPresets = map[string]Parameters{
	"neutral":    neutralPreset,
	"happy":      {Stability: 0.45, SimilarityBoost: 0.75, Style: 0.35, UseSpeakerBoost: 1.0},
	"sad":        {Stability: 0.6, SimilarityBoost: 0.75, Style: 0.25, UseSpeakerBoost: 1.0},
	"angry":      {Stability: 0.3, SimilarityBoost: 0.7, Style: 0.6, UseSpeakerBoost: 1.0},
	"fearful":    {Stability: 0.35, SimilarityBoost: 0.7, Style: 0.5, UseSpeakerBoost: 1.0},
	"surprised":  {Stability: 0.35, SimilarityBoost: 0.75, Style: 0.45, UseSpeakerBoost: 1.0},
	"disgusted":  {Stability: 0.4, SimilarityBoost: 0.7, Style: 0.5, UseSpeakerBoost: 1.0},
	"excited":    {Stability: 0.3, SimilarityBoost: 0.75, Style: 0.55, UseSpeakerBoost: 1.0},
	"calm":       {Stability: 0.7, SimilarityBoost: 0.8, Style: 0.1, UseSpeakerBoost: 1.0},
	"nervous":    {Stability: 0.35, SimilarityBoost: 0.7, Style: 0.4, UseSpeakerBoost: 1.0},
	"sarcastic":  {Stability: 0.45, SimilarityBoost: 0.7, Style: 0.5, UseSpeakerBoost: 1.0},
	"whispering": {Stability: 0.65, SimilarityBoost: 0.8, Style: 0.3, UseSpeakerBoost: 0.0},
}
